package main

import (
	"fmt"
	"os"

	"github.com/walletline/walletctl/internal/cli"
	apperrors "github.com/walletline/walletctl/internal/shared/errors"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", apperrors.UserMessage(err))
		os.Exit(1)
	}
}
