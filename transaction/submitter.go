package transaction

import (
	"context"
	"fmt"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/logging"
	"go.uber.org/zap"
	"io"
	"time"
)

// OptsFunc returns fresh signing options for one transaction.
type OptsFunc func(ctx context.Context) (*bind.TransactOpts, error)

type Submitter struct {
	backend bind.DeployBackend
	opts    OptsFunc
	timeout time.Duration
	out     io.Writer
}

// NewSubmitter returns a Submitter that waits at most timeout for a receipt.
// A zero timeout waits until ctx is done.
func NewSubmitter(backend bind.DeployBackend, opts OptsFunc, timeout time.Duration, out io.Writer) *Submitter {
	return &Submitter{backend: backend, opts: opts, timeout: timeout, out: out}
}

// SubmitAndConfirm sends call and waits for it to be mined. Failures are
// reported in the returned Outcome, never as a panic or error return.
// Nothing is retried.
func (s *Submitter) SubmitAndConfirm(ctx context.Context, call Call) *Outcome {
	outcome := &Outcome{Method: call.Method}

	// 1.0 sign and send
	tx, err := s.submit(ctx, call)
	if err != nil {
		outcome.Status = StatusRejected
		outcome.Err = errs.Wrap(errs.KindTransaction, err, "error occurred creating or sending the transaction")
		logging.Logger.Error("Submitter.SubmitAndConfirm error", zap.String("method", string(call.Method)), zap.Error(err))
		color.New(color.FgRed).Fprintf(s.out, "Error occurred creating or sending the transaction: %s\n", err.Error())
		return outcome
	}
	outcome.TxHash = tx.Hash()
	fmt.Fprintf(s.out, "Submitting transaction %s\n", tx.Hash().Hex())

	// 2.0 wait for the receipt
	receipt, err := s.wait(ctx, tx)
	if err == nil && receipt.Status != types.ReceiptStatusSuccessful {
		err = errors.Errorf("transaction %s reverted in block %v", tx.Hash().Hex(), receipt.BlockNumber)
	}
	outcome.Receipt = receipt
	if err != nil {
		outcome.Status = StatusUnconfirmed
		outcome.Err = errs.Wrap(errs.KindTransaction, err, "error occurred waiting for transaction to commit")
		logging.Logger.Error("Submitter.SubmitAndConfirm error", zap.String("method", string(call.Method)),
			zap.String("txHash", tx.Hash().Hex()), zap.Error(err))
		color.New(color.FgRed).Fprintf(s.out, "Error occurred waiting for transaction to commit: %s\n", err.Error())
		return outcome
	}

	outcome.Status = StatusConfirmed
	logging.Logger.Debug("transaction confirmed", zap.String("method", string(call.Method)),
		zap.String("txHash", tx.Hash().Hex()), zap.Uint64("gasUsed", receipt.GasUsed))
	fmt.Fprintf(s.out, "Transaction succeeded. TxHash: %s\n", tx.Hash().Hex())
	return outcome
}

func (s *Submitter) submit(ctx context.Context, call Call) (*types.Transaction, error) {
	if call.Transactor == nil {
		return nil, errors.Errorf("no contract bound for %s", call.Method)
	}
	opts, err := s.opts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "build transact opts")
	}
	opts.Context = ctx
	tx, err := call.Transactor.Transact(opts, string(call.Method), call.Args...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return tx, nil
}

func (s *Submitter) wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	receipt, err := bind.WaitMined(ctx, s.backend, tx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return receipt, nil
}
