package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/standardize/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	cancel()

	code := cli.ExitCode(err)
	if err != nil && code != cli.ExitInterrupted {
		fmt.Fprintln(os.Stderr, cli.ErrorMessage(err))
	}
	os.Exit(code)
}
