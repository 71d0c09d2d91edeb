package service

import (
	"github.com/voyage-finance/llamapay-cli/contracts/llama"
	"math/big"
)

const balancePlaces = 8

// BalanceStatus is a payer balance split into sign and magnitude.
type BalanceStatus struct {
	HasDebt   bool
	Magnitude string
}

// ClassifyBalance reports a negative balance as debt. Magnitude is the
// absolute value with 8 fractional digits, truncated.
func ClassifyBalance(balance *big.Int) BalanceStatus {
	if balance == nil {
		balance = new(big.Int)
	}
	return BalanceStatus{
		HasDebt:   balance.Sign() < 0,
		Magnitude: llama.FormatUnits(new(big.Int).Abs(balance), llama.Decimals, balancePlaces),
	}
}
