package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/grovetools/preflight/cli"
	"github.com/grovetools/preflight/cmd"
)

func main() {
	app, err := cmd.NewApp()
	if err != nil {
		cli.NewErrorHandler(false).Handle(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := cmd.NewRootCmd(app)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose).Handle(err)
		stop()
		os.Exit(1)
	}
}
