package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/streammon/streammon/internal/config"
	"github.com/streammon/streammon/internal/engine"
)

// buildCmd runs the JSON Ingestor followed by the Binary Codec's Serialize
// (spec.md §4.2, §4.3): the separate build step that original_source's
// json-to-dfa/parse_dfa.rs performed as its own command, kept here as a
// subcommand of the validator binary rather than a second executable.
var buildCmd = &cobra.Command{
	Use:   "build <dfa.json>",
	Short: "Ingest a JSON DFA description and persist it to the automaton cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("output-dir")
		if dir == "" {
			var err error
			dir, err = config.ResolveCacheDir()
			if err != nil {
				return err
			}
		}
		path, err := engine.Build(args[0], dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	buildCmd.Flags().String("output-dir", "", "cache directory to write the artifact to (default: the resolved cache directory)")
	rootCmd.AddCommand(buildCmd)
}
