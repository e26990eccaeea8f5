package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streammon/streammon/internal/config"
	"github.com/streammon/streammon/internal/engine"
)

// cacheCmd groups operations on the cache directory itself (spec.md §4.3):
// clearing it ("clean_cache") and reporting where it resolves to. Building
// an artifact into it is the top-level build command, not a cache
// subcommand, matching original_source's separate-binary split.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the deserialized-automaton cache directory",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the cache directory and everything in it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ResolveCacheDir()
		if err != nil {
			return err
		}
		return engine.CleanCache(dir)
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the resolved cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.AbsCacheDir()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd, cachePathCmd)
}
