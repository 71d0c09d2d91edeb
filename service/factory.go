package service

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/voyage-finance/llamapay-cli/contracts/handlers"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"io"
)

var ErrLlamaPayNotCreated = errs.New(errs.KindValidation, "llama pay has not been created")

// FactoryService resolves and deploys per-token LlamaPay contracts.
type FactoryService struct {
	factory   FactoryContract
	llamaAt   LlamaPayAt
	tokenAt   TokenAt
	submitter Submitter
	payer     common.Address
	out       io.Writer
}

func NewFactoryService(factory FactoryContract, llamaAt LlamaPayAt, tokenAt TokenAt, submitter Submitter, payer common.Address, out io.Writer) *FactoryService {
	return &FactoryService{
		factory:   factory,
		llamaAt:   llamaAt,
		tokenAt:   tokenAt,
		submitter: submitter,
		payer:     payer,
		out:       out,
	}
}

func (f *FactoryService) GetLlamaPayContractDetailsByToken(ctx context.Context, token common.Address) (*handlers.LlamaPayDetails, error) {
	return f.factory.GetLlamaPayContractByToken(ctx, token)
}

// LlamaPayServiceAt binds a LlamaPayService without checking deployment.
func (f *FactoryService) LlamaPayServiceAt(address common.Address) *LlamaPayService {
	return NewLlamaPayService(f.llamaAt(address), f.tokenAt, f.submitter, f.payer, f.out)
}

// TryGetLlamaPayService returns the service for token's contract, or
// ErrLlamaPayNotCreated when the factory has not deployed one.
func (f *FactoryService) TryGetLlamaPayService(ctx context.Context, token common.Address) (*LlamaPayService, error) {
	details, err := f.GetLlamaPayContractDetailsByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !details.IsDeployed {
		return nil, errs.Wrapf(errs.KindValidation, ErrLlamaPayNotCreated,
			"llama pay with token %s has not been created. Use createLlamaPay to create one", token.Hex())
	}
	return f.LlamaPayServiceAt(details.PredictedAddress), nil
}

// CreateLlamaPay deploys the contract for token. It sends nothing and
// returns a nil Outcome when the contract already exists. A failed send is
// reported by the submitter only.
func (f *FactoryService) CreateLlamaPay(ctx context.Context, token common.Address) (*transaction.Outcome, error) {
	details, err := f.GetLlamaPayContractDetailsByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	green := color.New(color.FgGreen)
	if details.IsDeployed {
		green.Fprintf(f.out, "LlamaPay for token=%s already exists. address=%s\n", token.Hex(), details.PredictedAddress.Hex())
		return nil, nil
	}
	green.Fprintf(f.out, "Sending transaction to create llamaPay for token=%s (will be created at %s)\n",
		token.Hex(), details.PredictedAddress.Hex())
	return f.submitter.SubmitAndConfirm(ctx, f.factory.CreateLlamaPayContract(token)), nil
}
