package matcher

import (
	"fmt"

	"github.com/coregx/coregex"

	"github.com/streammon/streammon/internal/streamerr"
)

// RegexEngine backs the CLI's -r flag. spec.md §6 allows -r to "compile
// on-the-fly to an automaton (via an external regex-to-DFA compiler the
// implementation may embed)"; coregx-coregex is that embeddable compiler.
//
// RegexEngine compiles the pattern anchored at the start only
// ("^(?:pattern)") and classifies by the length of the longest prefix the
// compiled regex matches there: no match at all is None, a match shorter
// than the line is Partial, and a match spanning the whole line is Full.
// This is an equivalent formulation of spec.md §4.4's classification (which
// explicitly permits "any implementation... provided classification
// agrees" on the documented scenarios), not a literal re-implementation of
// the DFA walk — see DESIGN.md for the one corner case where a
// greedy-regex prefix length can diverge from the last reachable match
// position the DFA walker reports.
type RegexEngine struct {
	re *coregex.Regex
}

// NewRegexEngine compiles pattern for use as a RegexEngine.
func NewRegexEngine(pattern string) (*RegexEngine, error) {
	anchored := fmt.Sprintf("^(?:%s)", pattern)
	re, err := coregex.Compile(anchored)
	if err != nil {
		return nil, streamerr.Usage(fmt.Sprintf("invalid regular expression %q", pattern))
	}
	return &RegexEngine{re: re}, nil
}

// Classify implements Engine.
func (e *RegexEngine) Classify(line []byte) (Classification, error) {
	idx := e.re.FindIndex(line)
	if idx == nil {
		return None, nil
	}
	// idx[0] is always 0: the pattern is start-anchored, so a match can only
	// begin at position zero.
	end := idx[1]
	if end == len(line) {
		return Full, nil
	}
	return Partial, nil
}
