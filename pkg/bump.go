package nextver

import (
	"fmt"
	"log/slog"
	"math"
)

// Bump is the word reported for a version change.
type Bump string

const (
	BumpNone    Bump = "none"
	BumpPatch   Bump = "patch"
	BumpMinor   Bump = "minor"
	BumpMajor   Bump = "major"
	BumpRelease Bump = "release"
	BumpAlpha   Bump = "alpha"
	BumpBeta    Bump = "beta"
	BumpRC      Bump = "rc"
	BumpFirst   Bump = "1.0.0"
)

func (b Bump) String() string { return string(b) }

func labelBump(l PreReleaseLabel) Bump {
	switch l {
	case Alpha:
		return BumpAlpha
	case Beta:
		return BumpBeta
	case RC:
		return BumpRC
	}
	return BumpNone
}

// Action selects how the engine derives the next version: from the
// aggregate commit level, or from a force directive.
type Action struct {
	Force *ForceDirective
}

// CalculateAction derives the next version from the commit level.
func CalculateAction() Action { return Action{} }

// ForceAction applies d regardless of the commit level.
func ForceAction(d ForceDirective) Action { return Action{Force: &d} }

func (a Action) String() string {
	if a.Force == nil {
		return "calculate"
	}
	return "force " + a.Force.String()
}

var firstVersion = SemanticVersion{Major: 1}

// Engine is the version state machine. It holds no state beyond its logger;
// every call maps (version, level, action) to a new version.
type Engine struct {
	Logger *slog.Logger
}

func (e Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return discardLogger
	}
	return e.Logger
}

// Next returns the version that follows current, and the bump word to
// report for it.
func (e Engine) Next(current SemanticVersion, level Level, action Action) (SemanticVersion, Bump, error) {
	if action.Force == nil {
		next, bump, err := e.calculate(current, level)
		if err != nil {
			return current, BumpNone, err
		}
		e.logger().Debug("calculated next version", "current", current, "level", level, "next", next, "bump", bump)
		return next, bump, nil
	}
	next, bump, err := e.force(current, level, *action.Force)
	if err != nil {
		return current, BumpNone, err
	}
	e.logger().Debug("forced next version", "current", current, "force", action.Force, "next", next, "bump", bump)
	return next, bump, nil
}

// increment adds one to a version component. Versions at the top of the
// uint64 range cannot move forward.
func increment(v SemanticVersion, n uint64, component string) (uint64, error) {
	if n == math.MaxUint64 {
		return n, &ParseError{Input: v.String(), Context: "cannot increment " + component, Err: ErrVersionOverflow}
	}
	return n + 1, nil
}

func nextMajor(v SemanticVersion) (SemanticVersion, error) {
	major, err := increment(v, v.Major, "major version")
	return SemanticVersion{Major: major}, err
}

func nextMinor(v SemanticVersion) (SemanticVersion, error) {
	minor, err := increment(v, v.Minor, "minor version")
	return SemanticVersion{Major: v.Major, Minor: minor}, err
}

func nextPatch(v SemanticVersion) (SemanticVersion, error) {
	patch, err := increment(v, v.Patch, "patch version")
	return SemanticVersion{Major: v.Major, Minor: v.Minor, Patch: patch}, err
}

func nextPreRelease(v SemanticVersion, label PreReleaseLabel) (SemanticVersion, error) {
	number, err := increment(v, v.PreRelease.Number, "pre-release number")
	return v.WithPreRelease(label, number), err
}

// calculate implements the commit-driven transitions.
func (e Engine) calculate(v SemanticVersion, level Level) (SemanticVersion, Bump, error) {
	if v.PreRelease != nil {
		if level == LevelNone {
			return v, BumpNone, nil
		}
		next, err := nextPreRelease(v, v.PreRelease.Label)
		if err != nil {
			return v, BumpNone, err
		}
		return next, labelBump(v.PreRelease.Label), nil
	}

	var (
		next SemanticVersion
		bump Bump
		err  error
	)
	switch {
	case v.Major == 0 && level == LevelBreaking:
		next, err = nextMinor(v)
		bump = BumpMinor
	case v.Major == 0 && (level == LevelFeature || level == LevelFix):
		next, err = nextPatch(v)
		bump = BumpPatch
	case v.Major == 0:
		return v, BumpNone, nil
	case level == LevelBreaking:
		next, err = nextMajor(v)
		bump = BumpMajor
	case level == LevelFeature:
		next, err = nextMinor(v)
		bump = BumpMinor
	case level == LevelFix:
		next, err = nextPatch(v)
		bump = BumpPatch
	default:
		return v, BumpNone, nil
	}
	if err != nil {
		return v, BumpNone, err
	}
	return next, bump, nil
}

func (e Engine) force(v SemanticVersion, level Level, d ForceDirective) (SemanticVersion, Bump, error) {
	if err := d.Validate(); err != nil {
		return v, BumpNone, &InvalidForceTransitionError{From: v, Directive: d, Reason: err.Error()}
	}

	switch d.Kind {
	case ForceMajor:
		next, err := nextMajor(v)
		return next, BumpMajor, err
	case ForceMinor:
		next, err := nextMinor(v)
		return next, BumpMinor, err
	case ForcePatch:
		next, err := nextPatch(v)
		return next, BumpPatch, err
	case ForceFirst:
		if v.Major > 0 && !(v.PreRelease != nil && v.Core().Equal(firstVersion)) {
			return v, BumpNone, &InvalidForceTransitionError{From: v, Directive: d,
				Reason: fmt.Sprintf("first production release already made (major version %d)", v.Major)}
		}
		return firstVersion, BumpFirst, nil
	case ForceRelease:
		if v.PreRelease == nil {
			return v, BumpNone, nil
		}
		return v.Core(), BumpRelease, nil
	case ForceRC, ForceBeta, ForceAlpha:
		label, _ := d.Kind.label()
		return e.forcePreRelease(v, level, d, label)
	}
	return v, BumpNone, &InvalidForceTransitionError{From: v, Directive: d, Reason: "unknown directive"}
}

// forcePreRelease starts or continues a pre-release train. Trains only move
// forward: alpha to beta to rc.
func (e Engine) forcePreRelease(v SemanticVersion, level Level, d ForceDirective, label PreReleaseLabel) (SemanticVersion, Bump, error) {
	bump := labelBump(label)

	if active := v.PreRelease; active != nil {
		switch {
		case active.Label == label:
			next, err := nextPreRelease(v, label)
			return next, bump, err
		case label > active.Label:
			return v.WithPreRelease(label, 1), bump, nil
		default:
			return v, BumpNone, &InvalidForceTransitionError{From: v, Directive: d,
				Reason: fmt.Sprintf("pre-release trains only move forward and %s is already active", active.Label)}
		}
	}

	var target SemanticVersion
	if d.AsFirst {
		if v.Major > 0 {
			return v, BumpNone, &InvalidForceTransitionError{From: v, Directive: d,
				Reason: fmt.Sprintf("first production release already made (major version %d)", v.Major)}
		}
		target = firstVersion
	} else {
		var err error
		if target, _, err = e.calculate(v, level); err != nil {
			return v, BumpNone, err
		}
		if target.Equal(v) {
			// A pre-release of the current version would sort below it.
			if target, err = nextPatch(v); err != nil {
				return v, BumpNone, err
			}
		}
	}
	return target.WithPreRelease(label, 1), bump, nil
}
