// Package matcher implements the line classification algorithm (spec.md
// §4.4) and the Engine abstraction the stream frontend drives it through.
package matcher

import (
	"github.com/streammon/streammon/internal/automaton"
	"github.com/streammon/streammon/internal/streamerr"
)

// Classification is spec.md §4.4's three-way line outcome.
type Classification = streamerr.Classification

const (
	Full    = streamerr.Full
	Partial = streamerr.Partial
	None    = streamerr.None
)

// Engine classifies a single line. internal/stream drives a line source
// through an Engine without caring whether it's backed by a deserialized
// DFA or an on-the-fly compiled regex.
type Engine interface {
	Classify(line []byte) (Classification, error)
}

// DFAEngine classifies lines by walking an automaton.Automaton, per
// spec.md §4.4's reference algorithm.
type DFAEngine struct {
	Automaton *automaton.Automaton
}

// Classify implements spec.md §4.4 exactly: walk the automaton from Start,
// remembering the input position of the last reachable match state, and
// classify based on where that position lands relative to len(line).
func (e *DFAEngine) Classify(line []byte) (Classification, error) {
	a := e.Automaton
	s := a.Start
	lastMatchEnd := -1

	for i := 0; i < len(line); i++ {
		if a.IsMatch(s) {
			lastMatchEnd = i
		}
		next, err := a.Step(s, line[i])
		if err != nil {
			return None, err
		}
		s = next
		if a.IsDead(s) {
			break
		}
	}
	if a.IsMatch(s) {
		lastMatchEnd = len(line)
	}

	switch {
	case lastMatchEnd == len(line):
		return Full, nil
	case lastMatchEnd >= 0:
		return Partial, nil
	default:
		return None, nil
	}
}
