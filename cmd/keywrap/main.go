package main

import (
	"fmt"
	"os"

	"github.com/awnumar/memguard"
)

func main() {
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		memguard.SafeExit(1)
	}
}
