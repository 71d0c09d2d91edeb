package main

import (
	"context"
	"github.com/fatih/color"
	"github.com/voyage-finance/llamapay-cli/cmd"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, os.Stdout); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}
