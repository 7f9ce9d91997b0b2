// CLI that runs the coach against a local SQLite file.
// Usage: go run ./cmd/macrocoach --help
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
