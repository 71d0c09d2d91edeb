package cmd

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/fatih/color"
	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"github.com/voyage-finance/llamapay-cli/config"
	"github.com/voyage-finance/llamapay-cli/contracts/handlers"
	"github.com/voyage-finance/llamapay-cli/display"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/logging"
	"github.com/voyage-finance/llamapay-cli/models"
	"github.com/voyage-finance/llamapay-cli/service"
	"github.com/voyage-finance/llamapay-cli/transaction"
	"github.com/voyage-finance/llamapay-cli/wallet"
	"go.uber.org/zap"
	"io"
	"math/big"
	"regexp"
)

var streamIDPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// app is the state of one CLI invocation.
type app struct {
	out     io.Writer
	envDir  string
	rpcURL  string
	network string

	cfg     *config.Config
	eth     *ethclient.Client
	svc     *service.Service
	printer *display.Printer
	wallet  *wallet.Wallet
}

// NewRootCommand builds the command tree writing operator output to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "llamapay",
		Short:         "Create and manage LlamaPay payment streams",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.envDir, "env-dir", ".", "Directory holding the .env files")
	root.PersistentFlags().StringVar(&a.rpcURL, "rpc-url", "", "The network rpc url (default RPC_URL)")
	root.PersistentFlags().StringVarP(&a.network, "network", "n", "", "Network Id (default NETWORK_ID)")

	root.AddCommand(
		a.newCreateLlamaPayCommand(),
		a.newCreateStreamCommand(),
		a.newCancelStreamCommand(),
		a.newWithdrawCommand(),
		a.newWithdrawPayerAllCommand(),
		a.newDepositCommand(),
		a.newGetStreamCommand(),
		a.newListCommand(),
		a.newGetWithdrawableCommand(),
		a.newTokensCommand(),
		a.newServeCommand(),
	)
	return root
}

// Execute runs the CLI. Only pre-flight failures are returned.
func Execute(ctx context.Context, out io.Writer) error {
	return NewRootCommand(out).ExecuteContext(ctx)
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load(a.envDir)
	if err != nil {
		return err
	}
	if cfg, err = cfg.WithOverrides(a.rpcURL, a.network); err != nil {
		return err
	}
	if err := logging.Init(cfg.LogLevel); err != nil {
		return errs.Wrap(errs.KindConfiguration, err, "invalid LOG_LEVEL")
	}
	contractHandlers, err := handlers.NewContractHandlers(cfg)
	if err != nil {
		return err
	}
	eth, err := wallet.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.eth = eth
	a.printer = display.NewPrinter(a.out)
	a.svc = &service.Service{
		Config:   cfg,
		Client:   resty.New(),
		Backend:  eth,
		Handlers: contractHandlers,
		Out:      a.out,
	}
	logging.Logger.Debug("configuration loaded", zap.String("rpcUrl", cfg.RPCURL), zap.String("network", cfg.NetworkID))
	return nil
}

func (a *app) close() {
	if a.eth != nil {
		a.eth.Close()
	}
	logging.Sync()
}

// requireWallet is the PreRunE of every command that signs.
func (a *app) requireWallet(cmd *cobra.Command, _ []string) error {
	if err := a.cfg.RequireKey(); err != nil {
		return err
	}
	w, err := wallet.New(a.cfg.Key, a.eth)
	if err != nil {
		return err
	}
	a.wallet = w
	return nil
}

func (a *app) submitter() *transaction.Submitter {
	return transaction.NewSubmitter(a.eth, a.wallet.TransactOpts, a.cfg.ConfirmTimeout, a.out)
}

func (a *app) factory() *service.FactoryService {
	if a.wallet == nil {
		return a.svc.Factory(nil, common.Address{})
	}
	return a.svc.Factory(a.submitter(), a.wallet.Address())
}

// guard runs fn and prints any failure instead of returning it, so a failed
// command still exits cleanly.
func (a *app) guard(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd.Context(), args); err != nil {
			a.report(err)
		}
		return nil
	}
}

func (a *app) report(err error) {
	kind := errs.KindOf(err)
	logging.Logger.Debug("command aborted", zap.Stringer("kind", kind), zap.Error(err))
	if kind == errs.KindExistenceConflict {
		color.New(color.FgGreen).Fprintln(a.out, err.Error())
		return
	}
	color.New(color.FgRed).Fprintf(a.out, "%s: %s\n", kind, err.Error())
}

// tokenOrDefault falls back to WUSD.
func (a *app) tokenOrDefault(token string) (common.Address, error) {
	if token == "" {
		token = a.cfg.WUSD
	}
	return parseAddress("Token", token)
}

func parseAddress(what, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errs.Newf(errs.KindValidation, "%s address %s is invalid", what, s)
	}
	return common.HexToAddress(s), nil
}

// streamsByID looks a stream id up in the subgraph. An unknown id is an
// error.
func (a *app) streamsByID(ctx context.Context, streamID string) ([]models.Stream, error) {
	if !streamIDPattern.MatchString(streamID) {
		return nil, errs.Newf(errs.KindValidation, "Stream id %s is invalid", streamID)
	}
	streams, err := a.svc.Graph().GetStreamInfoByStreamID(ctx, streamID)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, errs.Newf(errs.KindValidation, "No stream found for stream id %s", streamID)
	}
	return streams, nil
}

// streamParties extracts what the contract needs to address a stream.
func streamParties(s *models.Stream) (payer, payee, token common.Address, rate *big.Int, err error) {
	if payer, err = parseAddress("Payer", s.Payer.ID); err != nil {
		return
	}
	if payee, err = parseAddress("Payee", s.Payee.ID); err != nil {
		return
	}
	if token, err = parseAddress("Token", s.Token.Address); err != nil {
		return
	}
	rate, err = s.Rate()
	return
}
