package main

import (
	"os"

	"github.com/vinayrajsn007/ce-trader/cmd/trader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
