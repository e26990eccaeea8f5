// Package report delivers a validation failure to the outside world, either
// by writing a diagnostic to stderr (Abort mode) or by handing it to a
// monitoring parent process (Trap mode), per spec.md §4.6 and the trap
// protocol implemented by original_source/monitor/src/main.rs's kill_shell.
package report

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/streammon/streammon/internal/streamerr"
)

// Env names the environment variables Trap mode reads to locate its target.
const (
	EnvMessageFile = "MONITOR_MESSAGE_FILE"
	EnvTargetPID   = "MONITOR_TARGET_PID"
)

// Reporter delivers a *streamerr.Error of KindValidation to its destination.
// Abort writes to stderr and lets the process exit non-zero; Trap writes an
// incident message to a file and signals a monitoring parent, exiting 0 on
// successful delivery.
type Reporter interface {
	Report(verr *streamerr.Error) error
}

// Abort writes the validation failure message to Stderr and leaves the
// caller to translate the returned error into a non-zero exit code.
type Abort struct {
	Stderr *os.File
}

// Report implements Reporter.
func (a Abort) Report(verr *streamerr.Error) error {
	out := a.Stderr
	if out == nil {
		out = os.Stderr
	}
	fmt.Fprintln(out, incidentMessage(verr))
	return verr
}

// Trap writes the incident message to MONITOR_MESSAGE_FILE and sends
// SIGUSR1 to MONITOR_TARGET_PID, mirroring original_source/monitor's
// kill_shell. A misconfigured or absent environment is reported as
// streamerr.TrapMisconfigured so the caller can fall back to Abort mode
// rather than silently losing the incident.
type Trap struct{}

// Report implements Reporter.
func (Trap) Report(verr *streamerr.Error) error {
	msgPath, pid, err := trapTarget()
	if err != nil {
		return err
	}

	msg := incidentMessage(verr)
	if err := os.WriteFile(msgPath, []byte(msg), 0o644); err != nil {
		return streamerr.IO(fmt.Sprintf("write incident message to %s", msgPath), err)
	}
	if err := unix.Kill(pid, unix.SIGUSR1); err != nil {
		return streamerr.IO(fmt.Sprintf("signal SIGUSR1 to pid %d", pid), err)
	}
	return nil
}

// trapTarget resolves and validates Trap mode's environment, returning a
// *streamerr.Error of KindTrapMisconfigured on any problem.
func trapTarget() (msgPath string, pid int, err error) {
	msgPath = os.Getenv(EnvMessageFile)
	if msgPath == "" {
		return "", 0, streamerr.TrapMisconfigured(EnvMessageFile+" not set", nil)
	}
	pidStr := os.Getenv(EnvTargetPID)
	if pidStr == "" {
		return "", 0, streamerr.TrapMisconfigured(EnvTargetPID+" not set", nil)
	}
	pid, convErr := strconv.Atoi(pidStr)
	if convErr != nil {
		return "", 0, streamerr.TrapMisconfigured(EnvTargetPID+" is not a valid process id", convErr)
	}
	return msgPath, pid, nil
}

// incidentMessage formats verr the way original_source/monitor/src/main.rs
// formats its panic/kill_shell message: classification, offending line, and
// the validation type tag, on separate lines.
func incidentMessage(verr *streamerr.Error) string {
	switch verr.Classification {
	case streamerr.Partial:
		return fmt.Sprintf("Validation failed (partial match)\nIncriminating line: %s\nType: %s", verr.Line, verr.Type)
	default:
		return fmt.Sprintf("Validation failed\nIncriminating line: %s\nType: %s", verr.Line, verr.Type)
	}
}
