// Package engine orchestrates the core validation pipeline: resolving a
// matcher.Engine from the CLI's flags, driving a line source through it, and
// handing any failure to the configured Reporter. It plays the same role as
// the teacher's internal/pipeline package, minus the discovery/relevance
// stages this domain has no use for.
package engine

import (
	"io"

	"github.com/streammon/streammon/internal/automaton"
	"github.com/streammon/streammon/internal/codec"
	"github.com/streammon/streammon/internal/ingest"
	"github.com/streammon/streammon/internal/matcher"
	"github.com/streammon/streammon/internal/report"
	"github.com/streammon/streammon/internal/stream"
	"github.com/streammon/streammon/internal/streamerr"
)

// ValidateOptions carries everything a Validate call needs: which matcher to
// build, where to read from, and how to report a failure.
type ValidateOptions struct {
	// DFAPath, Regex, NoValidation select the matcher source; exactly one
	// should be set, enforced upstream by config.ValidateFlags.
	DFAPath      string
	Regex        string
	NoValidation bool

	// InputFile is the path to validate, or empty to read standard input.
	InputFile string

	// Trap selects report.Trap over report.Abort on validation failure.
	Trap bool
}

// Validate resolves a matcher.Engine per opts, streams InputFile (or stdin)
// through it to w, and reports any validation failure via the selected
// Reporter. It returns the error to report to the caller's exit code:
// nil on success, the wrapped report error otherwise.
func Validate(opts ValidateOptions, w io.Writer) error {
	eng, typ, err := resolveEngine(opts)
	if err != nil {
		return err
	}

	src, err := stream.OpenSource(opts.InputFile)
	if err != nil {
		return err
	}
	defer src.Close()

	verr := stream.Validate(src, w, eng, typ)
	if verr == nil {
		return nil
	}

	serr, ok := verr.(*streamerr.Error)
	if !ok || serr.Kind != streamerr.KindValidation {
		// Classification/IO/Corrupt errors propagate directly: only an
		// actual validation failure goes through the Reporter.
		return verr
	}

	var reporter report.Reporter = report.Abort{}
	if opts.Trap {
		reporter = report.Trap{}
	}

	if reportErr := reporter.Report(serr); reportErr != nil {
		if opts.Trap {
			// Trap delivery itself failed (misconfigured environment or a
			// signaling error) — fall back to an Abort-style report so the
			// incident is still surfaced somewhere.
			_ = report.Abort{}.Report(serr)
		}
		return reportErr
	}

	if opts.Trap {
		// A successfully trapped failure hands off to the monitoring parent
		// and exits cleanly itself.
		return nil
	}
	return serr
}

// resolveEngine builds the matcher.Engine and its reporting type tag from
// opts, mirroring original_source/monitor/src/main.rs's three-way dispatch
// on (dfa_path, regex, no_validation).
func resolveEngine(opts ValidateOptions) (matcher.Engine, string, error) {
	switch {
	case opts.DFAPath != "":
		a, err := codec.Deserialize(opts.DFAPath)
		if err != nil {
			return nil, "", err
		}
		return &matcher.DFAEngine{Automaton: a}, "DFA", nil
	case opts.Regex != "":
		re, err := matcher.NewRegexEngine(opts.Regex)
		if err != nil {
			return nil, "", err
		}
		return re, "Regex", nil
	case opts.NoValidation:
		return &matcher.DFAEngine{Automaton: automaton.Permissive()}, "Permissive", nil
	default:
		return nil, "", streamerr.Usage("must specify a validation source: -d <path>, -r <regex>, or --no-validation")
	}
}

// Build runs the JSON Ingestor over jsonPath and serializes the resulting
// automaton into cacheDir, returning the cache artifact's path.
func Build(jsonPath, cacheDir string) (string, error) {
	a, err := ingest.FromFile(jsonPath)
	if err != nil {
		return "", err
	}
	return codec.Serialize(cacheDir, a)
}

// CleanCache removes cacheDir and everything in it.
func CleanCache(cacheDir string) error {
	return codec.Clean(cacheDir)
}

