// Package codec implements streammon's binary automaton format and its
// content-addressed on-disk cache (spec.md §4.3).
//
// The wire format is CBOR (github.com/fxamacker/cbor/v2): compact,
// self-describing, and a byte-exact round trip for every field, including
// TransitionList order — cbor.Marshal encodes a Go slice as a CBOR array
// without reordering it, which is exactly the guarantee spec.md §4.1's
// first-match-wins tie-break depends on.
package codec

import (
	"slices"

	"github.com/fxamacker/cbor/v2"

	"github.com/streammon/streammon/internal/automaton"
	"github.com/streammon/streammon/internal/streamerr"
)

// wireTransition is the on-disk shape of an automaton.Transition. Short
// field names keep the encoded form compact.
type wireTransition struct {
	Kind uint8  `cbor:"k"`
	Lo   byte   `cbor:"l"`
	Hi   byte   `cbor:"h"`
	Next uint32 `cbor:"n"`
}

// wireAutomaton is the on-disk shape of an automaton.Automaton. Table is
// encoded as a CBOR map. Encode sorts MatchStates and uses canonical CBOR
// encoding (sorted map keys), so equal automata always encode to identical
// bytes and therefore to the same cache filename (see cache.go).
type wireAutomaton struct {
	Start       uint32                      `cbor:"start"`
	Dead        uint32                      `cbor:"dead"`
	MatchStates []uint32                    `cbor:"matches"`
	Table       map[uint32][]wireTransition `cbor:"table"`
}

// Encode serializes a into the binary wire format.
func Encode(a *automaton.Automaton) ([]byte, error) {
	w := wireAutomaton{
		Start: uint32(a.Start),
		Dead:  uint32(a.Dead),
		Table: make(map[uint32][]wireTransition, len(a.Table)),
	}
	for s := range a.Matches {
		w.MatchStates = append(w.MatchStates, uint32(s))
	}
	for state, list := range a.Table {
		wl := make([]wireTransition, len(list))
		for i, t := range list {
			wl[i] = wireTransition{Kind: uint8(t.Kind), Lo: t.Lo, Hi: t.Hi, Next: uint32(t.Next)}
		}
		w.Table[uint32(state)] = wl
	}
	slices.Sort(w.MatchStates)

	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, streamerr.Corrupt("encode automaton", err)
	}
	buf, err := em.Marshal(w)
	if err != nil {
		return nil, streamerr.Corrupt("encode automaton", err)
	}
	return buf, nil
}

// Decode deserializes the binary wire format produced by Encode back into
// an Automaton. It reconstructs the struct directly rather than routing
// through automaton.New, since the encoded table already carries the dead
// state's self-loop — running it back through New would reject that as a
// collision. Decode trusts that Encode's input satisfied the automaton
// invariants; it does not re-validate them.
func Decode(data []byte) (*automaton.Automaton, error) {
	var w wireAutomaton
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, streamerr.Corrupt("decode automaton", err)
	}

	table := make(map[automaton.StateID]automaton.TransitionList, len(w.Table))
	for state, wl := range w.Table {
		list := make(automaton.TransitionList, len(wl))
		for i, t := range wl {
			list[i] = automaton.Transition{
				Kind: automaton.TransitionKind(t.Kind),
				Lo:   t.Lo,
				Hi:   t.Hi,
				Next: automaton.StateID(t.Next),
			}
		}
		table[automaton.StateID(state)] = list
	}

	matches := make(map[automaton.StateID]struct{}, len(w.MatchStates))
	for _, m := range w.MatchStates {
		matches[automaton.StateID(m)] = struct{}{}
	}

	return &automaton.Automaton{
		Start:   automaton.StateID(w.Start),
		Dead:    automaton.StateID(w.Dead),
		Matches: matches,
		Table:   table,
	}, nil
}
