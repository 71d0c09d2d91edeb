package handlers

import (
	"github.com/voyage-finance/llamapay-cli/config"
)

type ContractHandlers struct {
	Erc20Handler   *Erc20Handler
	LlamaHandler   *LlamaHandler
	FactoryHandler *FactoryHandler
}

// NewContractHandlers loads the three ABIs from cfg.ABIDir.
func NewContractHandlers(cfg *config.Config) (*ContractHandlers, error) {
	erc20Handler, err := NewErc20Handler(cfg.ABIPath(ERC20ABIFile))
	if err != nil {
		return nil, err
	}
	llamaHandler, err := NewLlamaHandler(cfg.ABIPath(LlamaPayABIFile))
	if err != nil {
		return nil, err
	}
	factoryHandler, err := NewFactoryHandler(cfg.ABIPath(LlamaPayFactoryABIFile))
	if err != nil {
		return nil, err
	}
	return &ContractHandlers{erc20Handler, llamaHandler, factoryHandler}, nil
}
