package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streammon/streammon/internal/automaton"
)

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := automaton.Permissive()

	path, err := Serialize(dir, a)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path) || filepath.Dir(path) == dir)

	got, err := Deserialize(path)
	require.NoError(t, err)
	assert.Equal(t, a.Start, got.Start)
	assert.True(t, got.IsMatch(got.Start))
}

func TestSerialize_ContentAddressedIdempotent(t *testing.T) {
	dir := t.TempDir()
	a := automaton.Permissive()

	path1, err := Serialize(dir, a)
	require.NoError(t, err)
	path2, err := Serialize(dir, a)
	require.NoError(t, err)

	// Re-serializing identical content should land on the same file rather
	// than accumulating duplicate artifacts; concurrent writers producing
	// identical bytes are harmless per spec.md §4.3 / §5.
	assert.Equal(t, path1, path2)
}

func TestDeserialize_DetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	a := automaton.Permissive()
	path, err := Serialize(dir, a)
	require.NoError(t, err)

	buf, err := os.ReadFile(path)
	require.NoError(t, err)
	buf[len(buf)-1] ^= 0xFF // flip a payload byte, leaving the xxh3 header stale
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	_, err = Deserialize(path)
	require.Error(t, err)
}

func TestDeserialize_RejectsTruncatedHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "short.dfa")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	_, err := Deserialize(path)
	require.Error(t, err)
}

func TestClean_RemovesDirectory(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	_, err := Serialize(cacheDir, automaton.Permissive())
	require.NoError(t, err)

	require.NoError(t, Clean(cacheDir))

	_, err = os.Stat(cacheDir)
	assert.True(t, os.IsNotExist(err))
}
