package service

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/voyage-finance/llamapay-cli/contracts/handlers"
	"github.com/voyage-finance/llamapay-cli/contracts/llama"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/models"
)

// EncodeStreamPayloads builds the approve, deposit and createStream calls a
// multisig wallet has to propose to fund and open a stream. Nothing is sent.
func (f *FactoryService) EncodeStreamPayloads(ctx context.Context, h *handlers.ContractHandlers, req *models.EncodeStreamRequest) ([]models.MultiSignaturePayload, error) {
	if err := validator.New().Struct(req); err != nil {
		return nil, errs.Wrap(errs.KindValidation, err, "invalid stream request")
	}
	token := common.HexToAddress(req.Token)
	recipient := common.HexToAddress(req.Recipient)

	// 1.0 amounts
	amountPerSec, err := llama.AmountAndDurationToRate(req.Amount, req.Duration)
	if err != nil {
		return nil, err
	}
	decimals, err := f.tokenAt(token).Decimals(ctx)
	if err != nil {
		return nil, err
	}
	value, err := llama.ParseUnits(req.Amount, int32(decimals))
	if err != nil {
		return nil, err
	}

	// 2.0 the contract the funds go to
	details, err := f.GetLlamaPayContractDetailsByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !details.IsDeployed {
		return nil, errs.Wrapf(errs.KindValidation, ErrLlamaPayNotCreated, "llama pay with token %s has not been created", token.Hex())
	}
	llamaPay := details.PredictedAddress

	// 3.0 encode
	approve, err := h.Erc20Handler.EncodeApprove(llamaPay, value)
	if err != nil {
		return nil, err
	}
	deposit, err := h.LlamaHandler.EncodeDeposit(value)
	if err != nil {
		return nil, err
	}
	createStream, err := h.LlamaHandler.EncodeCreateStream(recipient, amountPerSec)
	if err != nil {
		return nil, err
	}
	return []models.MultiSignaturePayload{
		{To: token.Hex(), Data: approve},
		{To: llamaPay.Hex(), Data: deposit},
		{To: llamaPay.Hex(), Data: createStream},
	}, nil
}
