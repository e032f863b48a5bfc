package main

import (
	"fmt"
	"os"

	"github.com/refkit/refkit/cmd/refbench/app"
)

func main() {
	cmd := app.NewRefBenchCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
