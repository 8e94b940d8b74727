package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/modelcheck/modelcheck/internal/cli"
	"github.com/modelcheck/modelcheck/pkg/version"
)

func main() {
	cmd := cli.NewRootCmd()

	err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version.GetVersion()),
		fang.WithErrorHandler(cli.ErrorHandler),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}
