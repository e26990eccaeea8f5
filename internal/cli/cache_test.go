package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDFAJSON = `{
  "start_state": 1,
  "match_states": [3],
  "transition_table": [
    {"curr_state": 1, "range_start": 111, "range_end": 111, "next_state": 2},
    {"curr_state": 2, "range_start": 107, "range_end": 107, "next_state": 3}
  ]
}`

func TestCacheCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "cache" {
			found = true
			break
		}
	}
	assert.True(t, found, "cache subcommand must be registered on root command")
}

func TestBuildCommandRegistered(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "build" {
			found = true
			break
		}
	}
	assert.True(t, found, "build subcommand must be registered on root command")
}

func TestCacheBuildAndClean(t *testing.T) {
	resetFlags(t)

	workdir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	t.Setenv("STREAMMON_CACHE_DIR", filepath.Join(workdir, "cache"))

	jsonPath := filepath.Join(workdir, "dfa.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleDFAJSON), 0o644))

	rootCmd.SetArgs([]string{"build", jsonPath})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	require.Equal(t, ExitSuccess, code)
	artifactPath := strings.TrimSpace(buf.String())
	require.NotEmpty(t, artifactPath)

	_, err = os.Stat(artifactPath)
	require.NoError(t, err)

	rootCmd.SetArgs([]string{"cache", "clean"})
	buf.Reset()
	code = Execute()
	assert.Equal(t, ExitSuccess, code)

	_, err = os.Stat(artifactPath)
	assert.True(t, os.IsNotExist(err))
}

func TestCachePathPrintsResolvedDir(t *testing.T) {
	resetFlags(t)

	workdir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	t.Setenv("STREAMMON_CACHE_DIR", "")

	rootCmd.SetArgs([]string{"cache", "path"})
	defer rootCmd.SetArgs(nil)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	code := Execute()
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, strings.TrimSpace(buf.String()), "streammon-cache")
}
