// Command streammon validates a line stream against a declared stream type,
// forwarding matched lines downstream and failing on the first mismatch
// (spec.md §1).
package main

import (
	"os"

	"github.com/streammon/streammon/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
