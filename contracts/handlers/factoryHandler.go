package handlers

import (
	"context"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/voyage-finance/llamapay-cli/transaction"
)

const LlamaPayFactoryABIFile = "LlamaPayFactory.json"

type FactoryHandler struct {
	BaseHandler
}

func NewFactoryHandler(abiPath string) (*FactoryHandler, error) {
	base, err := NewBaseHandler(abiPath)
	if err != nil {
		return nil, err
	}
	return &FactoryHandler{*base}, nil
}

func (factoryHandler *FactoryHandler) At(address common.Address, backend bind.ContractBackend) *FactoryContract {
	return &FactoryContract{factoryHandler.bind(address, backend)}
}

type FactoryContract struct {
	boundContract
}

// LlamaPayDetails is the factory's CREATE2 prediction for a token.
type LlamaPayDetails struct {
	PredictedAddress common.Address
	IsDeployed       bool
}

func (c *FactoryContract) GetLlamaPayContractByToken(ctx context.Context, token common.Address) (*LlamaPayDetails, error) {
	out, err := c.call(ctx, "getLlamaPayContractByToken", token)
	if err != nil {
		return nil, err
	}
	var d LlamaPayDetails
	if d.PredictedAddress, err = outputAt[common.Address](out, 0, "getLlamaPayContractByToken"); err != nil {
		return nil, err
	}
	if d.IsDeployed, err = outputAt[bool](out, 1, "getLlamaPayContractByToken"); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *FactoryContract) CreateLlamaPayContract(token common.Address) transaction.Call {
	return c.newCall(transaction.MethodCreateLlamaPayContract, token)
}
