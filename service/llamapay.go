package service

import (
	"context"
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/voyage-finance/llamapay-cli/contracts/llama"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/logging"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"io"
	"math/big"
)

const separator = "----------------------------------"

var (
	ErrStreamExists        = errs.New(errs.KindExistenceConflict, "Stream already exists for this (payer, payee, amountPerSec)")
	ErrOutstandingDebt     = errs.New(errs.KindSolvency, "outstanding debt")
	ErrInsufficientBalance = errs.New(errs.KindSolvency, "insufficient balance")
)

// LlamaPayService runs the stream commands against one LlamaPay contract.
// Pre-condition failures come back as classified errors and send nothing.
// Transaction failures are reported in the returned Outcome.
type LlamaPayService struct {
	contract  LlamaPayContract
	tokenAt   TokenAt
	submitter Submitter
	payer     common.Address
	out       io.Writer
}

func NewLlamaPayService(contract LlamaPayContract, tokenAt TokenAt, submitter Submitter, payer common.Address, out io.Writer) *LlamaPayService {
	return &LlamaPayService{
		contract:  contract,
		tokenAt:   tokenAt,
		submitter: submitter,
		payer:     payer,
		out:       out,
	}
}

func (s *LlamaPayService) Address() common.Address {
	return s.contract.Address()
}

func (s *LlamaPayService) CreateStream(ctx context.Context, payee common.Address, amountPerSec *big.Int) (*transaction.Outcome, error) {
	// 1.0 stream must not exist yet
	exists, err := s.streamExists(ctx, payee, amountPerSec)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrStreamExists
	}

	// 2.0 payer must not be in debt
	if err := s.checkDebt(ctx, "createStream"); err != nil {
		return nil, err
	}

	// 3.0 submit
	fmt.Fprintln(s.out, "Sending transaction to create stream for...")
	s.printStream(payee, amountPerSec)
	return s.submitter.SubmitAndConfirm(ctx, s.contract.CreateStream(payee, amountPerSec)), nil
}

func (s *LlamaPayService) CancelStream(ctx context.Context, payee common.Address, amountPerSec *big.Int) (*transaction.Outcome, error) {
	if err := llama.CheckAmountPerSec(amountPerSec); err != nil {
		return nil, err
	}
	fmt.Fprintln(s.out, "Sending transaction to cancel stream for")
	s.printStream(payee, amountPerSec)
	return s.submitter.SubmitAndConfirm(ctx, s.contract.CancelStream(payee, amountPerSec)), nil
}

// Withdraw pushes what the payee has earned so far. Anyone may call it.
func (s *LlamaPayService) Withdraw(ctx context.Context, payer, payee common.Address, amountPerSec *big.Int) (*transaction.Outcome, error) {
	if err := llama.CheckAmountPerSec(amountPerSec); err != nil {
		return nil, err
	}
	fmt.Fprintf(s.out, "Sending transaction to withdraw tokens from payer: %s to payee: %s\n", payer.Hex(), payee.Hex())
	return s.submitter.SubmitAndConfirm(ctx, s.contract.Withdraw(payer, payee, amountPerSec)), nil
}

func (s *LlamaPayService) WithdrawPayerAll(ctx context.Context) (*transaction.Outcome, error) {
	if err := s.checkDebt(ctx, "withdrawPayerAll"); err != nil {
		return nil, err
	}
	return s.submitter.SubmitAndConfirm(ctx, s.contract.WithdrawPayerAll()), nil
}

// Deposit moves amount (in whole token units, decimals allowed up to the
// token's precision) from the wallet into the contract, approving first
// when the current allowance does not cover it.
func (s *LlamaPayService) Deposit(ctx context.Context, amount string) (*transaction.Outcome, error) {
	tokenAddress, err := s.contract.Token(ctx)
	if err != nil {
		return nil, err
	}
	token := s.tokenAt(tokenAddress)
	info, err := tokenInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	value, err := llama.ParseUnits(amount, int32(info.Decimals))
	if err != nil {
		return nil, err
	}

	// 1.0 wallet balance
	balance, err := token.BalanceOf(ctx, s.payer)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(value) < 0 {
		return nil, errs.Wrapf(errs.KindSolvency, ErrInsufficientBalance,
			"Payer (%s) has insufficient balance of %s. Desired deposit amount: %s. Balance: %s",
			s.payer.Hex(), info.Symbol, value, balance)
	}

	// 2.0 allowance, approving if needed
	spender := s.contract.Address()
	allowance, err := token.Allowance(ctx, s.payer, spender)
	if err != nil {
		return nil, err
	}
	if allowance.Cmp(value) >= 0 {
		fmt.Fprintln(s.out, "token allowance is sufficient. skipping the approval step.")
	} else {
		fmt.Fprintf(s.out, "================ approving llamapay contract for token %s ================\n", info.Symbol)
		approved := s.submitter.SubmitAndConfirm(ctx, token.Approve(spender, value))
		if !approved.Confirmed() {
			return approved, nil
		}
		fmt.Fprintf(s.out, "token approved. txHash: %s\n", approved.TxHash.Hex())
	}

	// 3.0 deposit
	fmt.Fprintf(s.out, "================ depositing token %s to llamapay contract ================\n", info.Symbol)
	deposited := s.submitter.SubmitAndConfirm(ctx, s.contract.Deposit(value))
	if deposited.Confirmed() {
		fmt.Fprintf(s.out, "token deposited. txHash: %s\n", deposited.TxHash.Hex())
	}
	return deposited, nil
}

// WithdrawableInfo is a stream's claimable and owed amounts, formatted in
// token units.
type WithdrawableInfo struct {
	Payee        string `json:"payee"`
	Symbol       string `json:"symbol"`
	Withdrawable string `json:"withdrawable"`
	Owed         string `json:"owed"`
}

func (s *LlamaPayService) GetWithdrawable(ctx context.Context, payer, payee common.Address, amountPerSec *big.Int) (*WithdrawableInfo, error) {
	tokenAddress, err := s.contract.Token(ctx)
	if err != nil {
		return nil, err
	}
	info, err := tokenInfo(ctx, s.tokenAt(tokenAddress))
	if err != nil {
		return nil, err
	}
	w, err := s.contract.Withdrawable(ctx, payer, payee, amountPerSec)
	if err != nil {
		return nil, err
	}
	return &WithdrawableInfo{
		Payee:        payee.Hex(),
		Symbol:       info.Symbol,
		Withdrawable: llama.FormatUnits(w.WithdrawableAmount, int32(info.Decimals), 2),
		Owed:         llama.FormatUnits(w.Owed, int32(info.Decimals), 2),
	}, nil
}

func (s *LlamaPayService) PrintWithdrawable(ctx context.Context, payer, payee common.Address, amountPerSec *big.Int) error {
	w, err := s.GetWithdrawable(ctx, payer, payee, amountPerSec)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "====================== withdrawable for user %s for token %s ======================\n", w.Payee, w.Symbol)
	fmt.Fprintf(s.out, "Withdrawable token amount: %s\n", w.Withdrawable)
	fmt.Fprintf(s.out, "Owed token amount: %s\n", w.Owed)
	return nil
}

func (s *LlamaPayService) streamExists(ctx context.Context, payee common.Address, amountPerSec *big.Int) (bool, error) {
	id, err := llama.StreamID(s.payer, payee, amountPerSec)
	if err != nil {
		return false, err
	}
	start, err := s.contract.StreamToStart(ctx, id)
	if err != nil {
		logging.Logger.Error("LlamaPayService.streamExists error", zap.String("streamId", id.Hex()), zap.Error(err))
		return false, err
	}
	return start.Sign() != 0, nil
}

func (s *LlamaPayService) checkDebt(ctx context.Context, action string) error {
	balance, err := s.contract.GetPayerBalance(ctx, s.payer)
	if err != nil {
		logging.Logger.Error("LlamaPayService.checkDebt error", zap.String("payer", s.payer.Hex()), zap.Error(err))
		return err
	}
	status := ClassifyBalance(balance)
	if status.HasDebt {
		return errs.Wrapf(errs.KindSolvency, ErrOutstandingDebt,
			"Payer (%s) has an outstanding debt %s. Cannot %s until this balance is paid. Keep in mind that the balance increases every second",
			s.payer.Hex(), status.Magnitude, action)
	}
	logging.Logger.Debug("payer balance", zap.String("payer", s.payer.Hex()), zap.String("balance", status.Magnitude))
	return nil
}

func (s *LlamaPayService) printStream(payee common.Address, amountPerSec *big.Int) {
	fmt.Fprintln(s.out, separator)
	fmt.Fprintf(s.out, "Payer: %s\n", s.payer.Hex())
	fmt.Fprintf(s.out, "Payee: %s\n", payee.Hex())
	fmt.Fprintf(s.out, "Amount Per Second: %s\n", amountPerSec)
	fmt.Fprintln(s.out, separator)
}

type TokenInfo struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
}

// tokenInfo reads symbol and decimals in parallel.
func tokenInfo(ctx context.Context, token TokenContract) (*TokenInfo, error) {
	info := &TokenInfo{Address: token.Address()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		info.Symbol, err = token.Symbol(gctx)
		return err
	})
	g.Go(func() (err error) {
		info.Decimals, err = token.Decimals(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}
