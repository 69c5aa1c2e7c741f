package bootstrap

import (
	"fmt"
	"strings"
)

// MissingInputError is returned when the file gating an action doesn't exist. This is always a
// configuration problem and never means "stale" or "fresh".
type MissingInputError struct {
	Action string
	Path   string
	Err    error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input %s of %q is missing", e.Path, e.Action)
}

func (e *MissingInputError) Unwrap() error {
	return e.Err
}

// CommandError is returned when an action's command could not be started or exited with a
// non-zero status.
type CommandError struct {
	Action  string
	Command []string
	// ExitCode is the command's exit status or -1 if it's not known
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("%q failed: %s exited with status %d", e.Action, strings.Join(e.Command, " "), e.ExitCode)
	}
	return fmt.Sprintf("%q failed: %s: %v", e.Action, strings.Join(e.Command, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// OutOfDateError is returned by Check for the first action that still has to run.
type OutOfDateError struct {
	Action string
}

func (e *OutOfDateError) Error() string {
	return fmt.Sprintf("setup is not complete (%q is out-of-date). Run bootstrap to update", e.Action)
}
