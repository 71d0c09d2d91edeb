package llama

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voyage-finance/llamapay-cli/errs"
	"math/big"
	"testing"
)

var (
	payer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	payee = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

func TestStreamID(t *testing.T) {
	rate := mustBig(t, "115740740740740740")

	t.Run("known vector", func(t *testing.T) {
		id, err := StreamID(payer, payee, rate)
		require.NoError(t, err)
		assert.Equal(t, "0xedd8aad0f485e174eac2afb250a17bec89a6160d60731f5365b50a74eafcb058", id.Hex())
	})

	t.Run("deterministic", func(t *testing.T) {
		a, err := StreamID(payer, payee, rate)
		require.NoError(t, err)
		b, err := StreamID(payer, payee, new(big.Int).Set(rate))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("direction matters", func(t *testing.T) {
		id, err := StreamID(payee, payer, rate)
		require.NoError(t, err)
		assert.Equal(t, "0xd4df5f011d8d65af83daaa8a2be844164707cceb5363400f967b6a6dbe8ba34d", id.Hex())
	})

	t.Run("distinct rates", func(t *testing.T) {
		a, err := StreamID(payer, payee, big.NewInt(1))
		require.NoError(t, err)
		b, err := StreamID(payer, payee, big.NewInt(2))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("max uint216 accepted", func(t *testing.T) {
		_, err := StreamID(payer, payee, new(big.Int).Set(maxAmountPerSec))
		assert.NoError(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		tooBig := new(big.Int).Lsh(big.NewInt(1), 216)
		for _, v := range []*big.Int{tooBig, big.NewInt(-1), nil} {
			_, err := StreamID(payer, payee, v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValueOutOfRange))
			assert.Equal(t, errs.KindValidation, errs.KindOf(err))
		}
	})
}

func TestParseDuration(t *testing.T) {
	cases := map[string]int64{
		"1 day":            86400,
		"3d":               259200,
		"2 wk":             1209600,
		"1 month":          2629800,
		"1 year":           31557600,
		"90s":              90,
		"1h30m":            5400,
		"1 day, 12 hours":  129600,
		"1 day and 1 hour": 90000,
		"1.5h":             5400,
		"1500ms":           1,
		"2 Minutes":        120,
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := ParseDuration(in)
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(want), got)
		})
	}
}

func TestParseDurationInvalid(t *testing.T) {
	for _, in := range []string{"0 seconds", "soon", "", "999ms", "1 fortnight", "1 day extra", "-"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDuration(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDuration))
		})
	}
}

func TestAmountAndDurationToRate(t *testing.T) {
	t.Run("100 per day", func(t *testing.T) {
		rate, err := AmountAndDurationToRate("100", "1 day")
		require.NoError(t, err)
		want := new(big.Int).Quo(new(big.Int).Mul(big.NewInt(100), new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil)), big.NewInt(86400))
		assert.Equal(t, want, rate)
		assert.Equal(t, "115740740740740740", rate.String())
	})

	t.Run("fractional amount is exact", func(t *testing.T) {
		rate, err := AmountAndDurationToRate("0.5", "1s")
		require.NoError(t, err)
		assert.Equal(t, "50000000000000000000", rate.String())
	})

	t.Run("truncates", func(t *testing.T) {
		rate, err := AmountAndDurationToRate("0.00000000000000000001", "3s")
		require.NoError(t, err)
		assert.Equal(t, "0", rate.String())
	})

	t.Run("invalid duration", func(t *testing.T) {
		for _, d := range []string{"0 seconds", "soon"} {
			_, err := AmountAndDurationToRate("100", d)
			assert.True(t, errors.Is(err, ErrInvalidDuration), d)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		for _, a := range []string{"-1", "abc", "1e5", "", "1.000000000000000000001"} {
			_, err := AmountAndDurationToRate(a, "1 day")
			assert.True(t, errors.Is(err, ErrInvalidAmount), a)
		}
	})
}

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("12.5", 6)
	require.NoError(t, err)
	assert.Equal(t, "12500000", v.String())

	v, err = ParseUnits("3.1000", 1)
	require.NoError(t, err)
	assert.Equal(t, "31", v.String(), "trailing zeros do not count as precision")

	_, err = ParseUnits("1.25", 1)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	for in, want := range map[string]string{".5": "500000", "100.": "100000000", "0.": "0", "007.50": "7500000"} {
		v, err := ParseUnits(in, 6)
		require.NoError(t, err, in)
		assert.Equal(t, want, v.String(), in)
	}
	for _, in := range []string{".", "1..2", "1.2.3", " . "} {
		_, err := ParseUnits(in, 6)
		assert.True(t, errors.Is(err, ErrInvalidAmount), in)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "5.00000000", FormatUnits(mustBig(t, "500000000000000000000"), Decimals, 8))
	assert.Equal(t, "0.12345678", FormatUnits(mustBig(t, "12345678999999999999"), Decimals, 8))
	assert.Equal(t, "0.00", FormatUnits(big.NewInt(0), 18, 2))
}
