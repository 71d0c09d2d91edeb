package handlers

import (
	"context"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/voyage-finance/llamapay-cli/contracts/llama"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"math/big"
)

const LlamaPayABIFile = "llamaPay.json"

type LlamaHandler struct {
	BaseHandler
}

func NewLlamaHandler(abiPath string) (*LlamaHandler, error) {
	base, err := NewBaseHandler(abiPath)
	if err != nil {
		return nil, err
	}
	return &LlamaHandler{*base}, nil
}

// At binds the LlamaPay ABI to a deployed per-token contract.
func (llamaHandler *LlamaHandler) At(address common.Address, backend bind.ContractBackend) *LlamaPayContract {
	return &LlamaPayContract{llamaHandler.bind(address, backend)}
}

func (llamaHandler *LlamaHandler) EncodeCreateStream(payee common.Address, amountPerSec *big.Int) (string, error) {
	if err := llama.CheckAmountPerSec(amountPerSec); err != nil {
		return "", err
	}
	return llamaHandler.EncodeFunc(string(transaction.MethodCreateStream), payee, amountPerSec)
}

func (llamaHandler *LlamaHandler) EncodeDeposit(amount *big.Int) (string, error) {
	return llamaHandler.EncodeFunc(string(transaction.MethodDeposit), amount)
}

type LlamaPayContract struct {
	boundContract
}

// Withdrawable is what the payee can claim now and what the payer still owes.
type Withdrawable struct {
	WithdrawableAmount *big.Int
	LastUpdate         *big.Int
	Owed               *big.Int
}

func (c *LlamaPayContract) Token(ctx context.Context) (common.Address, error) {
	out, err := c.call(ctx, "token")
	if err != nil {
		return common.Address{}, err
	}
	return outputAt[common.Address](out, 0, "token")
}

// GetPayerBalance is signed: a negative balance is debt.
func (c *LlamaPayContract) GetPayerBalance(ctx context.Context, payer common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "getPayerBalance", payer)
	if err != nil {
		return nil, err
	}
	return outputAt[*big.Int](out, 0, "getPayerBalance")
}

// StreamToStart is zero for streams that do not exist.
func (c *LlamaPayContract) StreamToStart(ctx context.Context, streamID common.Hash) (*big.Int, error) {
	out, err := c.call(ctx, "streamToStart", [32]byte(streamID))
	if err != nil {
		return nil, err
	}
	return outputAt[*big.Int](out, 0, "streamToStart")
}

func (c *LlamaPayContract) Withdrawable(ctx context.Context, payer, payee common.Address, amountPerSec *big.Int) (*Withdrawable, error) {
	out, err := c.call(ctx, "withdrawable", payer, payee, amountPerSec)
	if err != nil {
		return nil, err
	}
	var w Withdrawable
	if w.WithdrawableAmount, err = outputAt[*big.Int](out, 0, "withdrawable"); err != nil {
		return nil, err
	}
	if w.LastUpdate, err = outputAt[*big.Int](out, 1, "withdrawable"); err != nil {
		return nil, err
	}
	if w.Owed, err = outputAt[*big.Int](out, 2, "withdrawable"); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *LlamaPayContract) CreateStream(payee common.Address, amountPerSec *big.Int) transaction.Call {
	return c.newCall(transaction.MethodCreateStream, payee, amountPerSec)
}

func (c *LlamaPayContract) CancelStream(payee common.Address, amountPerSec *big.Int) transaction.Call {
	return c.newCall(transaction.MethodCancelStream, payee, amountPerSec)
}

func (c *LlamaPayContract) Withdraw(payer, payee common.Address, amountPerSec *big.Int) transaction.Call {
	return c.newCall(transaction.MethodWithdraw, payer, payee, amountPerSec)
}

func (c *LlamaPayContract) WithdrawPayerAll() transaction.Call {
	return c.newCall(transaction.MethodWithdrawPayerAll)
}

func (c *LlamaPayContract) Deposit(amount *big.Int) transaction.Call {
	return c.newCall(transaction.MethodDeposit, amount)
}
