package cmd

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/voyage-finance/llamapay-cli/errs"
	"github.com/voyage-finance/llamapay-cli/models"
	"github.com/voyage-finance/llamapay-cli/service"
)

func (a *app) newGetStreamCommand() *cobra.Command {
	var streamID string
	cmd := &cobra.Command{
		Use:     "getStream",
		Aliases: []string{"gs"},
		Short:   "get stream information including basic event history by stream id",
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			streams, err := a.streamsByID(ctx, streamID)
			if err != nil {
				return err
			}
			a.printer.Banner(fmt.Sprintf("Query for stream id %s", streamID))
			// the same id can exist on several LlamaPay contracts
			for i := range streams {
				if err := a.printStreams(ctx, streams[i:i+1]); err != nil {
					return err
				}
				a.printer.BasicHistory(streams[i].HistoricalEvents)
			}
			return nil
		}),
	}
	streamIDFlag(cmd, &streamID)
	return cmd
}

func (a *app) newListCommand() *cobra.Command {
	var user string
	var streamOnly, eventOnly bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list streams and historical events by payer or payee",
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			if user == "" {
				if a.cfg.Key == "" {
					return errs.New(errs.KindValidation, "--user <user> required when no key in .env")
				}
				if err := a.requireWallet(nil, nil); err != nil {
					return err
				}
				user = a.wallet.Address().Hex()
			}
			address, err := parseAddress("User", user)
			if err != nil {
				return err
			}

			data, err := a.svc.Graph().GetStreamAndHistoryByUserAddress(ctx, address.Hex())
			if err != nil {
				return err
			}
			a.printer.Banner(fmt.Sprintf("Query for User %s", address.Hex()))
			if !eventOnly {
				if err := a.printStreams(ctx, data.Streams); err != nil {
					return err
				}
			}
			if !streamOnly {
				a.printer.History(data.HistoricalEvents)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Payer or Payee address (if not specified uses the user corresponding to the private key)")
	cmd.Flags().BoolVar(&streamOnly, "streamOnly", false, "only list streams")
	cmd.Flags().BoolVar(&eventOnly, "eventOnly", false, "only list historical events")
	cmd.MarkFlagsMutuallyExclusive("streamOnly", "eventOnly")
	return cmd
}

func (a *app) newGetWithdrawableCommand() *cobra.Command {
	var streamID string
	cmd := &cobra.Command{
		Use:     "getWithdrawable",
		Aliases: []string{"gw"},
		Short:   "get the stream withdrawable amount and what is owed by stream id",
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			streams, err := a.streamsByID(ctx, streamID)
			if err != nil {
				return err
			}
			payer, payee, token, rate, err := streamParties(&streams[0])
			if err != nil {
				return err
			}
			factory := a.factory()
			details, err := factory.GetLlamaPayContractDetailsByToken(ctx, token)
			if err != nil {
				return err
			}
			return factory.LlamaPayServiceAt(details.PredictedAddress).PrintWithdrawable(ctx, payer, payee, rate)
		}),
	}
	streamIDFlag(cmd, &streamID)
	return cmd
}

func (a *app) newTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "list the tokens that have a llamaPay contract",
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			tokens, err := a.svc.Graph().GetAllTokens(ctx)
			if err != nil {
				return err
			}
			a.printer.Tokens(tokens)
			return nil
		}),
	}
}

func (a *app) printStreams(ctx context.Context, streams []models.Stream) error {
	symbols, err := service.StreamTokenSymbols(ctx, a.svc.TokenAt, streams)
	if err != nil {
		return err
	}
	a.printer.Streams(streams, symbols)
	return nil
}
