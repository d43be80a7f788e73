package nextver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVersionTag is returned when no tag in the repository matches the
	// version tag grammar for the configured prefix.
	ErrNoVersionTag = errors.New("no version tag found in the repository")

	// ErrNoCommitsFound is returned when there are no commits since the
	// current version tag, so there is nothing to calculate from.
	ErrNoCommitsFound = errors.New("no commits found since the current version tag")

	// ErrThresholdNotMet is only returned by callers that ask for a failure
	// when the check level is not reached. The calculator itself reports
	// "none" instead.
	ErrThresholdNotMet = errors.New("minimum change level has not been met")

	// ErrGit wraps failures of the git collaborator.
	ErrGit = errors.New("git")

	// ErrVersionOverflow is wrapped in a ParseError when a version
	// component is already at its maximum.
	ErrVersionOverflow = errors.New("version component overflow")
)

// ParseError describes a malformed version or tag.
type ParseError struct {
	Input   string
	Context string
	Err     error
	// Tag is the tag name when Input came from a tag.
	Tag string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parsing %q: %s", e.Input, e.Context)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingRequiredFilesError lists every required file that was not changed
// by the commits in scope.
type MissingRequiredFilesError struct {
	Files []string
}

func (e *MissingRequiredFilesError) Error() string {
	return fmt.Sprintf("missing the required file(s): %s", strings.Join(e.Files, ", "))
}

// InvalidForceTransitionError is returned when a force directive cannot be
// applied to the current version.
type InvalidForceTransitionError struct {
	From      SemanticVersion
	Directive ForceDirective
	Reason    string
}

func (e *InvalidForceTransitionError) Error() string {
	return fmt.Sprintf("cannot force %s from %s: %s", e.Directive, e.From, e.Reason)
}

// Exit codes for each failure class. Automation can branch on them, e.g. to
// tell "release blocked by missing files" from "nothing to release".
const (
	ExitSuccess                = 0
	ExitUnexpected             = 10
	ExitParseError             = 11
	ExitNotCalculated          = 12
	ExitMissingRequired        = 13
	ExitThresholdNotMet        = 14
	ExitNoCommits              = 15
	ExitInvalidForceTransition = 16
)

// ExitCode maps an error returned by this package to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		parseErr   *ParseError
		missingErr *MissingRequiredFilesError
		forceErr   *InvalidForceTransitionError
	)
	switch {
	case errors.As(err, &missingErr):
		return ExitMissingRequired
	case errors.As(err, &forceErr):
		return ExitInvalidForceTransition
	case errors.As(err, &parseErr):
		return ExitParseError
	case errors.Is(err, ErrNoCommitsFound):
		return ExitNoCommits
	case errors.Is(err, ErrThresholdNotMet):
		return ExitThresholdNotMet
	case errors.Is(err, ErrNoVersionTag), errors.Is(err, ErrGit):
		return ExitNotCalculated
	}
	return ExitUnexpected
}
