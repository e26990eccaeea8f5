// Package ingest parses the externally-built JSON DFA description (spec.md
// §4.2) into an *automaton.Automaton. It is the only component that ever
// sees the wire JSON schema; everything downstream works with the in-memory
// model or the binary cache.
package ingest

import (
	"fmt"
	"io"
	"os"

	"github.com/segmentio/encoding/json"

	"github.com/streammon/streammon/internal/automaton"
	"github.com/streammon/streammon/internal/streamerr"
)

// record mirrors one entry of the JSON "transition_table" array.
type record struct {
	CurrState  uint32 `json:"curr_state"`
	RangeStart uint8  `json:"range_start"`
	RangeEnd   uint8  `json:"range_end"`
	NextState  uint32 `json:"next_state"`
}

// document mirrors the full JSON DFA description, spec.md §4.2.
type document struct {
	StartState  uint32   `json:"start_state"`
	MatchStates []uint32 `json:"match_states"`
	Transitions []record `json:"transition_table"`
}

// FromFile reads and parses the JSON DFA description at path.
func FromFile(path string) (*automaton.Automaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, streamerr.IO(fmt.Sprintf("open DFA description %s", path), err)
	}
	defer f.Close()
	return FromReader(f)
}

// FromReader parses a JSON DFA description read from r using
// segmentio/encoding/json, a drop-in faster decoder than the standard
// library's — matching the component's "fast deserialization" design goal
// even though the JSON Ingestor runs only once per cache build, not on the
// streaming hot path.
func FromReader(r io.Reader) (*automaton.Automaton, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, streamerr.Parse("decode DFA description", err)
	}
	return fromDocument(&doc)
}

// fromDocument implements spec.md §4.2's four-step construction: group
// transitions by curr_state preserving order, classify each record as
// Single or Range, and hand the result to automaton.New, which registers
// every referenced state, installs the reserved dead state and rejects a
// collision with it.
func fromDocument(doc *document) (*automaton.Automaton, error) {
	table := make(map[automaton.StateID]automaton.TransitionList)
	for _, rec := range doc.Transitions {
		state := automaton.StateID(rec.CurrState)
		kind := automaton.KindRange
		if rec.RangeStart == rec.RangeEnd {
			kind = automaton.KindSingle
		}
		table[state] = append(table[state], automaton.Transition{
			Kind: kind,
			Lo:   rec.RangeStart,
			Hi:   rec.RangeEnd,
			Next: automaton.StateID(rec.NextState),
		})
	}

	matchStates := make([]automaton.StateID, 0, len(doc.MatchStates))
	for _, m := range doc.MatchStates {
		matchStates = append(matchStates, automaton.StateID(m))
	}

	a, err := automaton.New(automaton.StateID(doc.StartState), matchStates, table)
	if err != nil {
		return nil, streamerr.Corrupt("build automaton from DFA description", err)
	}
	return a, nil
}
