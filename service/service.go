package service

import (
	"context"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-resty/resty/v2"
	"github.com/voyage-finance/llamapay-cli/config"
	"github.com/voyage-finance/llamapay-cli/contracts/handlers"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"io"
	"math/big"
)

// LlamaPayContract is the per-token streaming contract as the orchestrator
// uses it. *handlers.LlamaPayContract satisfies it.
type LlamaPayContract interface {
	Address() common.Address
	Token(ctx context.Context) (common.Address, error)
	GetPayerBalance(ctx context.Context, payer common.Address) (*big.Int, error)
	StreamToStart(ctx context.Context, streamID common.Hash) (*big.Int, error)
	Withdrawable(ctx context.Context, payer, payee common.Address, amountPerSec *big.Int) (*handlers.Withdrawable, error)
	CreateStream(payee common.Address, amountPerSec *big.Int) transaction.Call
	CancelStream(payee common.Address, amountPerSec *big.Int) transaction.Call
	Withdraw(payer, payee common.Address, amountPerSec *big.Int) transaction.Call
	WithdrawPayerAll() transaction.Call
	Deposit(amount *big.Int) transaction.Call
}

type TokenContract interface {
	Address() common.Address
	Symbol(ctx context.Context) (string, error)
	Decimals(ctx context.Context) (uint8, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
	Approve(spender common.Address, amount *big.Int) transaction.Call
}

type FactoryContract interface {
	Address() common.Address
	GetLlamaPayContractByToken(ctx context.Context, token common.Address) (*handlers.LlamaPayDetails, error)
	CreateLlamaPayContract(token common.Address) transaction.Call
}

type Submitter interface {
	SubmitAndConfirm(ctx context.Context, call transaction.Call) *transaction.Outcome
}

type (
	LlamaPayAt func(common.Address) LlamaPayContract
	TokenAt    func(common.Address) TokenContract
)

// Service holds the collaborators shared by every command. It carries no
// state between invocations.
type Service struct {
	Config   *config.Config
	Client   *resty.Client
	Backend  bind.ContractBackend
	Handlers *handlers.ContractHandlers
	Out      io.Writer
}

func (s *Service) Graph() *GraphService {
	return NewGraphService(s.Client, s.Config.ClientURL, s.Config.NetworkID)
}

func (s *Service) LlamaPayAt(address common.Address) LlamaPayContract {
	return s.Handlers.LlamaHandler.At(address, s.Backend)
}

func (s *Service) TokenAt(address common.Address) TokenContract {
	return s.Handlers.Erc20Handler.At(address, s.Backend)
}

// Factory binds the configured factory contract. submitter may be nil for
// read-only use.
func (s *Service) Factory(submitter Submitter, payer common.Address) *FactoryService {
	factory := s.Handlers.FactoryHandler.At(common.HexToAddress(s.Config.LlamaPayFactoryContract), s.Backend)
	return NewFactoryService(factory, s.LlamaPayAt, s.TokenAt, submitter, payer, s.Out)
}
