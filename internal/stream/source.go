// Package stream implements the frontend that pairs a line source with a
// matcher.Engine and forwards validated lines downstream (spec.md §4.5).
package stream

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/streammon/streammon/internal/streamerr"
)

// OpenSource opens the input for validation. If path is non-empty it is
// opened as a file; otherwise standard input is used, unless standard input
// is attached to an interactive terminal, in which case spec.md §4.5
// requires failing with a diagnostic rather than hanging waiting for input
// that was never piped in.
func OpenSource(path string) (*os.File, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, streamerr.IO(fmt.Sprintf("open input file %s", path), err)
		}
		return f, nil
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		return nil, streamerr.IO("no input stream piped in or provided via file", nil)
	}
	return os.Stdin, nil
}
