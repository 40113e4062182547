package main

import (
	"fmt"
	"os"

	"github.com/GuardianAI1/triaia/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
