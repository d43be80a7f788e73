package nextver

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitUnexpected},
		{&ParseError{Input: "v1.x.0", Context: "bad"}, ExitParseError},
		{fmt.Errorf("tag v1.x.0: %w", &ParseError{Input: "1.x.0"}), ExitParseError},
		{fmt.Errorf("%w (prefix %q)", ErrNoVersionTag, "v"), ExitNotCalculated},
		{fmt.Errorf("%w: git rev-list failed", ErrGit), ExitNotCalculated},
		{&MissingRequiredFilesError{Files: []string{"CHANGELOG.md"}}, ExitMissingRequired},
		{fmt.Errorf("%w: other is below fix", ErrThresholdNotMet), ExitThresholdNotMet},
		{ErrNoCommitsFound, ExitNoCommits},
		{&InvalidForceTransitionError{Directive: ForceDirective{Kind: ForceBeta}}, ExitInvalidForceTransition},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, ExitCode(tc.err), "ExitCode(%v)", tc.err)
	}
}

func TestErrorMessages(t *testing.T) {
	err := &ParseError{Input: "1.2", Context: "expected three version components, found 2"}
	assert.Equal(t, `parsing "1.2": expected three version components, found 2`, err.Error())

	wrapped := &ParseError{Input: "x", Context: "bad", Err: errors.New("inner")}
	assert.Equal(t, `parsing "x": bad: inner`, wrapped.Error())

	forceErr := &InvalidForceTransitionError{
		From:      MustParseVersion("1.1.0-rc.1"),
		Directive: ForceDirective{Kind: ForceBeta},
		Reason:    "pre-release trains only move forward and rc is already active",
	}
	assert.Equal(t, "cannot force beta from 1.1.0-rc.1: pre-release trains only move forward and rc is already active", forceErr.Error())
}

func TestParseForceKind(t *testing.T) {
	for name, kind := range map[string]ForceKind{
		"major": ForceMajor, "Minor": ForceMinor, "patch": ForcePatch,
		"first": ForceFirst, "1.0.0": ForceFirst, "release": ForceRelease,
		"rc": ForceRC, "beta": ForceBeta, "alpha": ForceAlpha,
	} {
		got, err := ParseForceKind(name)
		assert.NoError(t, err, name)
		assert.Equal(t, kind, got, name)
	}
	_, err := ParseForceKind("gamma")
	assert.Error(t, err)

	var k ForceKind
	assert.Equal(t, "", k.String())
	assert.NoError(t, k.Set("rc"))
	assert.Equal(t, "rc", k.String())
	assert.Equal(t, "force", k.Type())

	assert.NoError(t, ForceDirective{Kind: ForceBeta, AsFirst: true}.Validate())
	assert.Error(t, ForceDirective{Kind: ForceRelease, AsFirst: true}.Validate())
	assert.Error(t, ForceDirective{}.Validate())
}
