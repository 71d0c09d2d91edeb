package handlers

import (
	"context"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"math/big"
)

const ERC20ABIFile = "ERC20.json"

type Erc20Handler struct {
	BaseHandler
}

func NewErc20Handler(abiPath string) (*Erc20Handler, error) {
	base, err := NewBaseHandler(abiPath)
	if err != nil {
		return nil, err
	}
	return &Erc20Handler{*base}, nil
}

func (erc20Handler *Erc20Handler) At(address common.Address, backend bind.ContractBackend) *Erc20Contract {
	return &Erc20Contract{erc20Handler.bind(address, backend)}
}

func (erc20Handler *Erc20Handler) EncodeApprove(spender common.Address, value *big.Int) (string, error) {
	return erc20Handler.EncodeFunc(string(transaction.MethodApprove), spender, value)
}

type Erc20Contract struct {
	boundContract
}

func (c *Erc20Contract) Symbol(ctx context.Context) (string, error) {
	out, err := c.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	return outputAt[string](out, 0, "symbol")
}

func (c *Erc20Contract) Decimals(ctx context.Context) (uint8, error) {
	out, err := c.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return outputAt[uint8](out, 0, "decimals")
}

func (c *Erc20Contract) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return outputAt[*big.Int](out, 0, "balanceOf")
}

func (c *Erc20Contract) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return outputAt[*big.Int](out, 0, "allowance")
}

func (c *Erc20Contract) Approve(spender common.Address, amount *big.Int) transaction.Call {
	return c.newCall(transaction.MethodApprove, spender, amount)
}
