package main

import (
	"os"

	"simple-ledger-go/cli"
)

func main() {
	err := cli.Run()
	if err != nil {
		os.Exit(1)
	}
}
