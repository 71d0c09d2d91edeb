package llama

import (
	"github.com/shopspring/decimal"
	"github.com/voyage-finance/llamapay-cli/errs"
	"math/big"
	"regexp"
	"strings"
)

var ErrInvalidDuration = errs.New(errs.KindValidation, "invalid duration")

// unit lengths in milliseconds; a month is 1/12 of a 365.25 day year
var durationUnits = map[string]decimal.Decimal{
	"ns": decimal.New(1, -6),
	"us": decimal.New(1, -3),
	"µs": decimal.New(1, -3),
	"ms": decimal.New(1, 0),
	"s":  decimal.New(1000, 0),
	"m":  decimal.New(60*1000, 0),
	"h":  decimal.New(60*60*1000, 0),
	"d":  decimal.New(24*60*60*1000, 0),
	"w":  decimal.New(7*24*60*60*1000, 0),
	"mo": decimal.New(2629800*1000, 0),
	"y":  decimal.New(31557600*1000, 0),
}

var durationAliases = map[string]string{
	"nanosecond": "ns", "nanoseconds": "ns", "nsec": "ns",
	"microsecond": "us", "microseconds": "us", "usec": "us",
	"millisecond": "ms", "milliseconds": "ms", "msec": "ms",
	"sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"min": "m", "mins": "m", "minute": "m", "minutes": "m",
	"hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"day": "d", "days": "d",
	"wk": "w", "wks": "w", "week": "w", "weeks": "w",
	"b": "mo", "mth": "mo", "mths": "mo", "month": "mo", "months": "mo",
	"yr": "y", "yrs": "y", "year": "y", "years": "y",
}

var durationTerm = regexp.MustCompile(`(\d+(?:\.\d+)?|\.\d+)\s*([a-zµ]+)`)

// ParseDuration turns a human duration such as "1 month", "2 wk" or
// "1d 12h" into whole seconds. Terms are summed; leftover text is an error.
func ParseDuration(s string) (*big.Int, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	in = strings.NewReplacer(",", " ", "_", "", " and ", " ").Replace(in)

	matches := durationTerm.FindAllStringSubmatchIndex(in, -1)
	if len(matches) == 0 {
		return nil, errs.Wrapf(errs.KindValidation, ErrInvalidDuration, "cannot parse %q", s)
	}

	total := decimal.Zero
	prev := 0
	for _, m := range matches {
		if strings.TrimSpace(in[prev:m[0]]) != "" {
			return nil, errs.Wrapf(errs.KindValidation, ErrInvalidDuration, "unexpected %q in %q", in[prev:m[0]], s)
		}
		prev = m[1]

		unit := in[m[4]:m[5]]
		if alias, ok := durationAliases[unit]; ok {
			unit = alias
		}
		ms, ok := durationUnits[unit]
		if !ok {
			return nil, errs.Wrapf(errs.KindValidation, ErrInvalidDuration, "unknown unit %q in %q", unit, s)
		}
		n, err := decimal.NewFromString(in[m[2]:m[3]])
		if err != nil {
			return nil, errs.Wrapf(errs.KindValidation, ErrInvalidDuration, "bad number in %q", s)
		}
		total = total.Add(n.Mul(ms))
	}
	if strings.TrimSpace(in[prev:]) != "" {
		return nil, errs.Wrapf(errs.KindValidation, ErrInvalidDuration, "unexpected %q in %q", in[prev:], s)
	}

	seconds := total.Shift(-3).Floor().BigInt()
	if seconds.Sign() <= 0 {
		return nil, errs.Wrapf(errs.KindValidation, ErrInvalidDuration, "%q resolves to %v seconds", s, seconds)
	}
	return seconds, nil
}
