// Package cli implements the Cobra command hierarchy for the streammon
// validator. The root command is the entry point: it parses the
// mutually-exclusive validation-source flags (spec.md §6), resolves
// logging, and drives the engine over the selected input. Subcommands
// handle the cache-artifact lifecycle and build metadata.
package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/streammon/streammon/internal/config"
	"github.com/streammon/streammon/internal/engine"
	"github.com/streammon/streammon/internal/streamerr"
)

// Process exit codes. ExitSuccess/ExitError are the only two this binary
// ever returns: spec.md §7 treats every error kind except a trapped
// ValidationFailure as terminal, and a trapped failure reports nil so the
// process can still exit 0.
const (
	ExitSuccess = 0
	ExitError   = 1
)

// flagValues holds the parsed global flag values, populated by
// config.BindFlags during command initialization. The -d/-r/--no-validation
// mutual-exclusion check lives in the root command's own RunE, not in
// PersistentPreRunE: Cobra only runs the invoked command's RunE, but it
// inherits PersistentPreRunE from the nearest ancestor that defines one, so
// a check placed there would also gate every subcommand that doesn't
// define its own (version, completion, build, cache clean/path).
var flagValues *config.FlagValues

var rootCmd = &cobra.Command{
	Use:   "streammon [input_file]",
	Short: "Validate a line stream against a declared stream type.",
	Long: `streammon sits between a producer and a consumer in a shell
pipeline, verifying that every line the producer emits matches a declared
stream type: a byte-level regular language backed by a deserialized DFA
cache artifact (-d), a regular expression compiled on the fly (-r), or no
validation at all (--no-validation). Matched lines are forwarded to
standard output as soon as they are validated; the first line that fails
either aborts the process with a non-zero exit status or, in trap mode
(-t), signals a monitoring parent process so an enclosing shell pipeline
can abort cleanly.

Input is read from input_file if given, otherwise from standard input.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := config.ResolveLogLevel(flagValues.Verbose, flagValues.Quiet)
		format := config.ResolveLogFormat()
		config.SetupLogging(level, format)

		slog.Debug("logging initialized", "level", level, "format", format)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidateFlags(flagValues); err != nil {
			return err
		}

		var inputFile string
		if len(args) == 1 {
			inputFile = args[0]
		}

		opts := engine.ValidateOptions{
			DFAPath:      flagValues.DFAPath,
			Regex:        flagValues.Regex,
			NoValidation: flagValues.NoValidation,
			InputFile:    inputFile,
			Trap:         flagValues.Trap,
		}
		return engine.Validate(opts, cmd.OutOrStdout())
	},
}

func init() {
	flagValues = config.BindFlags(rootCmd)
	rootCmd.AddCommand(cacheCmd)
}

// Execute runs the root command and returns an appropriate exit code. If
// the error is a *streamerr.Error, its ExitCode() is used. A KindValidation
// error is never logged here: report.Abort already wrote its own diagnostic
// directly to stderr (spec.md §4.6), and logging it again would print the
// same failure twice in two different formats.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var serr *streamerr.Error
		if !errors.As(err, &serr) || serr.Kind != streamerr.KindValidation {
			slog.Error(err.Error())
		}
		return extractExitCode(err)
	}
	return ExitSuccess
}

// extractExitCode determines the process exit code from an error. If the
// error is a *streamerr.Error, its ExitCode is used. Otherwise ExitError
// (1) is returned for any non-nil error.
func extractExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var serr *streamerr.Error
	if errors.As(err, &serr) {
		return serr.ExitCode()
	}
	return ExitError
}

// RootCmd returns the root cobra.Command for use in testing and subcommand
// registration.
func RootCmd() *cobra.Command {
	return rootCmd
}

// GlobalFlags returns the parsed global flag values. This is available
// after PersistentPreRunE has run. Subcommands use this to access shared
// configuration.
func GlobalFlags() *config.FlagValues {
	return flagValues
}
