package main

import (
	"context"
	"os"

	"github.com/abgdnv/mangahaven/internal/cli"
	"github.com/charmbracelet/fang"
)

const version = "0.1.0"

func main() {
	if err := fang.Execute(
		context.Background(),
		cli.NewRootCmd(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
