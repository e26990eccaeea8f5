package config

import (
	"github.com/spf13/cobra"

	"github.com/streammon/streammon/internal/streamerr"
)

// FlagValues holds the parsed global flag values for the validate operation,
// populated by BindFlags during command initialization and checked by
// ValidateFlags in the root command's RunE (not PersistentPreRunE, which
// subcommands without their own would otherwise inherit).
type FlagValues struct {
	DFAPath      string
	Regex        string
	NoValidation bool
	Trap         bool
	Verbose      bool
	Quiet        bool
}

// BindFlags registers the validate operation's flags on cmd and returns the
// struct cobra will populate at parse time.
func BindFlags(cmd *cobra.Command) *FlagValues {
	fv := &FlagValues{}
	cmd.PersistentFlags().StringVarP(&fv.DFAPath, "dfa", "d", "", "path to a serialized automaton cache artifact")
	cmd.PersistentFlags().StringVarP(&fv.Regex, "regex", "r", "", "regular expression compiled on the fly instead of a cache artifact")
	cmd.PersistentFlags().BoolVar(&fv.NoValidation, "no-validation", false, "perform no validation; every line passes through")
	cmd.PersistentFlags().BoolVarP(&fv.Trap, "trap", "t", false, "on validation failure, signal a monitoring parent instead of aborting")
	cmd.PersistentFlags().BoolVarP(&fv.Verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&fv.Quiet, "quiet", "q", false, "suppress all but error logging")
	return fv
}

// ValidateFlags enforces spec.md §6's mutual exclusion between -d, -r, and
// --no-validation: exactly one validation source must be selected. Violations
// are reported as a streamerr.Error of KindUsage, mirroring the teacher's
// config.ValidateFlags contract.
func ValidateFlags(fv *FlagValues) error {
	selected := 0
	if fv.DFAPath != "" {
		selected++
	}
	if fv.Regex != "" {
		selected++
	}
	if fv.NoValidation {
		selected++
	}

	switch selected {
	case 0:
		return streamerr.Usage("must specify a validation source: -d <path>, -r <regex>, or --no-validation")
	case 1:
		return nil
	default:
		return streamerr.Usage("only one of -d, -r, or --no-validation may be specified")
	}
}

// ValidationType returns the type tag the failure reporter prints alongside
// an incident, matching original_source/monitor/src/main.rs's typ variable.
func (fv *FlagValues) ValidationType() string {
	switch {
	case fv.DFAPath != "":
		return "DFA"
	case fv.Regex != "":
		return "Regex"
	default:
		return "Permissive"
	}
}
