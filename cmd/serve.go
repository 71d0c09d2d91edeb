package cmd

import (
	"context"
	"github.com/spf13/cobra"
	"github.com/voyage-finance/llamapay-cli/http_server"
)

func (a *app) newServeCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve stream queries and multisig payloads over HTTP",
		RunE: a.guard(func(ctx context.Context, _ []string) error {
			if port == "" {
				port = a.cfg.HTTPServerPort
			}
			return http_server.NewServer(a.svc).ListenAndServe(ctx, ":"+port)
		}),
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default HTTP_SERVER_PORT)")
	return cmd
}
