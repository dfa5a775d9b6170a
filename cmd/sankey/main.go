package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/matzehuels/sankey/internal/cli"
	sankeyerrors "github.com/matzehuels/sankey/pkg/errors"
)

// Exit codes.
const (
	exitError       = 1
	exitInvalidData = 2   // the tree, options or config were rejected
	exitInterrupted = 130 // SIGINT, by shell convention
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(exitInterrupted)
	}
	c.Logger.Error(err)
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if strings.HasPrefix(string(sankeyerrors.GetCode(err)), "INVALID_") {
		return exitInvalidData
	}
	return exitError
}
