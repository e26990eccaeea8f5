package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streammon/streammon/internal/automaton"
)

func buildSample(t *testing.T) *automaton.Automaton {
	t.Helper()
	const s0 automaton.StateID = 5
	const s1 automaton.StateID = 6
	table := map[automaton.StateID]automaton.TransitionList{
		s0: {
			{Kind: automaton.KindSingle, Lo: 'x', Hi: 'x', Next: s1},
			{Kind: automaton.KindRange, Lo: 'a', Hi: 'z', Next: s1},
		},
	}
	a, err := automaton.New(s0, []automaton.StateID{s1}, table)
	require.NoError(t, err)
	return a
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	a := buildSample(t)
	buf, err := Encode(a)
	require.NoError(t, err)

	got, err := Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, a.Start, got.Start)
	assert.Equal(t, a.Dead, got.Dead)
	assert.Equal(t, a.Matches, got.Matches)

	for _, b := range []byte("xylophone123") {
		wantNext, wantErr := a.Step(a.Start, b)
		gotNext, gotErr := got.Step(got.Start, b)
		require.Equal(t, wantErr == nil, gotErr == nil)
		assert.Equal(t, wantNext, gotNext, "classification for byte %q must survive the round trip", b)
	}
}

func TestEncodeDecode_PreservesTransitionOrder(t *testing.T) {
	a := buildSample(t)
	buf, err := Encode(a)
	require.NoError(t, err)
	got, err := Decode(buf)
	require.NoError(t, err)

	next, err := got.Step(got.Start, 'x')
	require.NoError(t, err)
	assert.Equal(t, automaton.StateID(6), next)

	list := got.Table[automaton.StateID(5)]
	require.Len(t, list, 2)
	assert.Equal(t, automaton.KindSingle, list[0].Kind)
	assert.Equal(t, automaton.KindRange, list[1].Kind)
}

func TestDecode_RejectsGarbage(t *testing.T) {
	_, err := Decode([]byte{0xff, 0x00, 0x01})
	require.Error(t, err)
}
