// Command neardup detects and removes near-duplicate text documents.
package main

import (
	"os"

	"github.com/custodia-labs/neardup/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
