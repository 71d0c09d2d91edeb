package cmd

import (
	"context"
	"github.com/spf13/cobra"
	"github.com/voyage-finance/llamapay-cli/contracts/llama"
)

func (a *app) newCreateLlamaPayCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:     "createLlamaPay",
		Aliases: []string{"clp"},
		Short:   "create llamaPay through llamaPayFactory providing an ERC20 token",
		PreRunE: a.requireWallet,
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			tokenAddress, err := a.tokenOrDefault(token)
			if err != nil {
				return err
			}
			_, err = a.factory().CreateLlamaPay(ctx, tokenAddress)
			return err
		}),
	}
	cmd.Flags().StringVarP(&token, "token", "t", "", "token address (default WUSD)")
	return cmd
}

func (a *app) newCreateStreamCommand() *cobra.Command {
	var payee, amount, duration, token string
	cmd := &cobra.Command{
		Use:     "createStream",
		Aliases: []string{"cs"},
		Short:   "create a stream to start paying a payee",
		PreRunE: a.requireWallet,
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			payeeAddress, err := parseAddress("Payee", payee)
			if err != nil {
				return err
			}
			tokenAddress, err := a.tokenOrDefault(token)
			if err != nil {
				return err
			}
			amountPerSec, err := llama.AmountAndDurationToRate(amount, duration)
			if err != nil {
				return err
			}
			svc, err := a.factory().TryGetLlamaPayService(ctx, tokenAddress)
			if err != nil {
				return err
			}
			_, err = svc.CreateStream(ctx, payeeAddress, amountPerSec)
			return err
		}),
	}
	cmd.Flags().StringVarP(&payee, "payee", "p", "", "Payee address")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount of tokens to be paid to payee without decimals")
	cmd.Flags().StringVarP(&duration, "duration", "d", "", `Total duration until the full amount paid to the payee. (ex: "1 month", "2 wk", etc)`)
	cmd.Flags().StringVarP(&token, "token", "t", "", "Token address that is used to create llama pay contract (default WUSD)")
	_ = cmd.MarkFlagRequired("payee")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func (a *app) newCancelStreamCommand() *cobra.Command {
	var streamID string
	cmd := &cobra.Command{
		Use:     "cancelStream",
		Short:   "cancel stream by stream ID. To get stream id, use the list command",
		PreRunE: a.requireWallet,
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			streams, err := a.streamsByID(ctx, streamID)
			if err != nil {
				return err
			}
			_, payee, token, rate, err := streamParties(&streams[0])
			if err != nil {
				return err
			}
			svc, err := a.factory().TryGetLlamaPayService(ctx, token)
			if err != nil {
				return err
			}
			_, err = svc.CancelStream(ctx, payee, rate)
			return err
		}),
	}
	streamIDFlag(cmd, &streamID)
	return cmd
}

func (a *app) newWithdrawCommand() *cobra.Command {
	var streamID string
	cmd := &cobra.Command{
		Use:     "withdraw",
		Short:   "withdraw all tokens by stream id. this can be called by anyone",
		PreRunE: a.requireWallet,
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			streams, err := a.streamsByID(ctx, streamID)
			if err != nil {
				return err
			}
			payer, payee, token, rate, err := streamParties(&streams[0])
			if err != nil {
				return err
			}
			svc, err := a.factory().TryGetLlamaPayService(ctx, token)
			if err != nil {
				return err
			}
			_, err = svc.Withdraw(ctx, payer, payee, rate)
			return err
		}),
	}
	streamIDFlag(cmd, &streamID)
	return cmd
}

func (a *app) newWithdrawPayerAllCommand() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:     "withdrawPayerAll",
		Short:   "withdraw tokens for payer. the returning balance is the total balance subtracts the debt",
		PreRunE: a.requireWallet,
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			tokenAddress, err := a.tokenOrDefault(token)
			if err != nil {
				return err
			}
			svc, err := a.factory().TryGetLlamaPayService(ctx, tokenAddress)
			if err != nil {
				return err
			}
			_, err = svc.WithdrawPayerAll(ctx)
			return err
		}),
	}
	cmd.Flags().StringVarP(&token, "token", "t", "", "Token address that is used to create llama pay contract (default WUSD)")
	return cmd
}

func (a *app) newDepositCommand() *cobra.Command {
	var token, amount string
	cmd := &cobra.Command{
		Use: "deposit",
		Short: "deposit the underlying token specified in the llamaPayContract to the contract. " +
			"It will automatically approve the amount specified if allowance is not sufficient",
		PreRunE: a.requireWallet,
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			tokenAddress, err := a.tokenOrDefault(token)
			if err != nil {
				return err
			}
			svc, err := a.factory().TryGetLlamaPayService(ctx, tokenAddress)
			if err != nil {
				return err
			}
			_, err = svc.Deposit(ctx, amount)
			return err
		}),
	}
	cmd.Flags().StringVarP(&token, "token", "t", "", "Token address that is used to create llama pay contract (default WUSD)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount to be deposited without the decimals")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func streamIDFlag(cmd *cobra.Command, streamID *string) {
	cmd.Flags().StringVarP(streamID, "streamId", "s", "", "Stream ID")
	_ = cmd.MarkFlagRequired("streamId")
}
