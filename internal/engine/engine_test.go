package engine

import (
	"bytes"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streammon/streammon/internal/streamerr"
)

// notifyUSR1 catches SIGUSR1 for the duration of t so Trap's real signal
// delivery to our own PID doesn't terminate the test binary.
func notifyUSR1(t *testing.T, ch chan os.Signal) {
	t.Helper()
	signal.Notify(ch, syscall.SIGUSR1)
	t.Cleanup(func() { signal.Stop(ch) })
}

const literalJSON = `{
  "start_state": 1,
  "match_states": [3],
  "transition_table": [
    {"curr_state": 1, "range_start": 111, "range_end": 111, "next_state": 2},
    {"curr_state": 2, "range_start": 107, "range_end": 107, "next_state": 3}
  ]
}`

func writeInputFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestValidate_NoValidationPassesEverything(t *testing.T) {
	in := writeInputFile(t, "anything at all\nsecond line\n")
	var out bytes.Buffer

	err := Validate(ValidateOptions{NoValidation: true, InputFile: in}, &out)
	require.NoError(t, err)
	assert.Equal(t, "anything at all\nsecond line\n", out.String())
}

func TestValidate_RegexFull(t *testing.T) {
	in := writeInputFile(t, "ok\n")
	var out bytes.Buffer

	err := Validate(ValidateOptions{Regex: "ok", InputFile: in}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out.String())
}

func TestValidate_RegexFailureAborts(t *testing.T) {
	in := writeInputFile(t, "nope\n")
	var out bytes.Buffer

	err := Validate(ValidateOptions{Regex: "ok", InputFile: in}, &out)
	require.Error(t, err)

	var serr *streamerr.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, streamerr.KindValidation, serr.Kind)
}

func TestValidate_DFAFromBuiltCacheArtifact(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "dfa.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(literalJSON), 0o644))

	cacheDir := filepath.Join(t.TempDir(), "cache")
	cachePath, err := Build(jsonPath, cacheDir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cachePath, cacheDir))

	in := writeInputFile(t, "ok\n")
	var out bytes.Buffer
	err = Validate(ValidateOptions{DFAPath: cachePath, InputFile: in}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out.String())
}

func TestValidate_NoSourceSelectedIsUsageError(t *testing.T) {
	in := writeInputFile(t, "x\n")
	var out bytes.Buffer

	err := Validate(ValidateOptions{InputFile: in}, &out)
	require.Error(t, err)

	var serr *streamerr.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, streamerr.KindUsage, serr.Kind)
}

func TestValidate_TrapDeliversAndReturnsNilOnSuccess(t *testing.T) {
	caught := make(chan os.Signal, 1)
	notifyUSR1(t, caught)

	dir := t.TempDir()
	msgPath := filepath.Join(dir, "msg.txt")
	t.Setenv("MONITOR_MESSAGE_FILE", msgPath)
	t.Setenv("MONITOR_TARGET_PID", strconv.Itoa(os.Getpid()))

	in := writeInputFile(t, "nope\n")
	var out bytes.Buffer
	err := Validate(ValidateOptions{Regex: "ok", InputFile: in, Trap: true}, &out)
	require.NoError(t, err)

	data, readErr := os.ReadFile(msgPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "Incriminating line: nope")
}

func TestCleanCache_RemovesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, CleanCache(dir))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
