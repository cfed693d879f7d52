package main

import (
	"context"
	"os"

	"github.com/roshan-abady/churnscope/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
