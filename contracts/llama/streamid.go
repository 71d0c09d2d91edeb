package llama

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/voyage-finance/llamapay-cli/errs"
	"math/big"
)

// Decimals is the fixed-point precision LlamaPay uses for amountPerSec and
// payer balances, independent of the underlying token.
const Decimals = 20

const amountPerSecBits = 216

var (
	ErrValueOutOfRange = errs.New(errs.KindValidation, "value out of range")

	maxAmountPerSec = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), amountPerSecBits), big.NewInt(1))
)

// StreamID mirrors the contract's getStreamId:
// keccak256(abi.encodePacked(address payer, address payee, uint216 amountPerSec)).
func StreamID(payer, payee common.Address, amountPerSec *big.Int) (common.Hash, error) {
	if err := CheckAmountPerSec(amountPerSec); err != nil {
		return common.Hash{}, err
	}
	packed := make([]byte, 0, 2*common.AddressLength+amountPerSecBits/8)
	packed = append(packed, payer.Bytes()...)
	packed = append(packed, payee.Bytes()...)
	packed = append(packed, common.LeftPadBytes(amountPerSec.Bytes(), amountPerSecBits/8)...)
	return crypto.Keccak256Hash(packed), nil
}

// CheckAmountPerSec fails when v does not fit in a uint216.
func CheckAmountPerSec(v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.Cmp(maxAmountPerSec) > 0 {
		return errs.Wrapf(errs.KindValidation, ErrValueOutOfRange, "amountPerSec %v does not fit in uint216", v)
	}
	return nil
}
