package llama

import (
	"github.com/shopspring/decimal"
	"github.com/voyage-finance/llamapay-cli/errs"
	"math/big"
	"regexp"
	"strings"
)

var ErrInvalidAmount = errs.New(errs.KindValidation, "invalid amount")

// "12", "12.5", ".5" and "12." are accepted.
var plainDecimal = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// ParseUnits scales a non-negative decimal string to an integer with the
// given number of decimals. More fractional digits than decimals is an
// error rather than a silent truncation.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if !plainDecimal.MatchString(amount) {
		return nil, errs.Wrapf(errs.KindValidation, ErrInvalidAmount, "%q is not a non-negative decimal", amount)
	}
	if strings.Contains(amount, ".") {
		amount = strings.TrimRight(strings.TrimRight("0"+amount, "0"), ".")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, errs.Wrapf(errs.KindValidation, ErrInvalidAmount, "%q", amount)
	}
	if -d.Exponent() > decimals {
		return nil, errs.Wrapf(errs.KindValidation, ErrInvalidAmount, "%q has more than %d fractional digits", amount, decimals)
	}
	return d.Shift(decimals).BigInt(), nil
}

// FormatUnits renders a fixed-point integer as a decimal string, truncated
// to places fractional digits.
func FormatUnits(v *big.Int, decimals int32, places int32) string {
	return decimal.NewFromBigInt(v, -decimals).Truncate(places).StringFixed(places)
}

// AmountAndDurationToRate converts "pay amount over duration" into the
// 20-decimal per-second rate: floor(amount * 10^20 / seconds).
func AmountAndDurationToRate(amount, duration string) (*big.Int, error) {
	seconds, err := ParseDuration(duration)
	if err != nil {
		return nil, err
	}
	scaled, err := ParseUnits(amount, Decimals)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Quo(scaled, seconds), nil
}
