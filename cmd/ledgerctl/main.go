// Command ledgerctl computes balances and settlement plans for a group
// ledger kept in a TOML file, without a server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
