package nextver

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// PreReleaseLabel is one of the supported pre-release trains.
type PreReleaseLabel uint8

const (
	Alpha PreReleaseLabel = iota + 1
	Beta
	RC
)

func (l PreReleaseLabel) String() string {
	switch l {
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case RC:
		return "rc"
	}
	return fmt.Sprintf("PreReleaseLabel(%d)", uint8(l))
}

// parseLabel is case sensitive: tags carry lower case labels only.
func parseLabel(s string) (PreReleaseLabel, bool) {
	switch s {
	case "alpha":
		return Alpha, true
	case "beta":
		return Beta, true
	case "rc":
		return RC, true
	}
	return 0, false
}

// PreRelease is the "<label>.<number>" suffix of a version.
type PreRelease struct {
	Label  PreReleaseLabel
	Number uint64
}

func (p PreRelease) String() string {
	return p.Label.String() + "." + strconv.FormatUint(p.Number, 10)
}

// SemanticVersion is a MAJOR.MINOR.PATCH version with an optional
// pre-release. The zero value is 0.0.0.
type SemanticVersion struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	PreRelease *PreRelease
}

// String formats the version without any prefix, e.g. "1.2.3-rc.1".
func (v SemanticVersion) String() string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease != nil {
		return base + "-" + v.PreRelease.String()
	}
	return base
}

// IsPreRelease reports whether the version carries a pre-release suffix.
func (v SemanticVersion) IsPreRelease() bool { return v.PreRelease != nil }

// IsStable reports whether the version is on the stable line (major >= 1).
func (v SemanticVersion) IsStable() bool { return v.Major >= 1 }

// Core returns the version with the pre-release stripped.
func (v SemanticVersion) Core() SemanticVersion {
	return SemanticVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
}

// WithPreRelease returns a copy of v carrying the given pre-release.
func (v SemanticVersion) WithPreRelease(label PreReleaseLabel, number uint64) SemanticVersion {
	c := v.Core()
	c.PreRelease = &PreRelease{Label: label, Number: number}
	return c
}

// Equal reports whether both versions are identical.
func (v SemanticVersion) Equal(o SemanticVersion) bool {
	return v.Compare(o) == 0
}

// Compare returns -1, 0 or +1 following semantic version precedence: the
// numeric triple first, then a pre-release sorts before its release, then
// alpha < beta < rc, then the pre-release number.
func (v SemanticVersion) Compare(o SemanticVersion) int {
	return semver.Compare(v.canonical(), o.canonical())
}

// canonical is the "v"-prefixed form golang.org/x/mod/semver expects.
func (v SemanticVersion) canonical() string {
	return "v" + v.String()
}

// Valid reports whether v satisfies the model invariants.
func (v SemanticVersion) Valid() bool {
	if v.PreRelease != nil {
		if _, ok := parseLabel(v.PreRelease.Label.String()); !ok || v.PreRelease.Number < 1 {
			return false
		}
	}
	return semver.IsValid(v.canonical())
}

// ParseVersion parses "MAJOR.MINOR.PATCH" optionally followed by
// "-<alpha|beta|rc>.<number>". No prefix is accepted.
func ParseVersion(s string) (SemanticVersion, error) {
	var v SemanticVersion

	core, pre, hasPre := strings.Cut(s, "-")
	numParts := strings.Split(core, ".")
	if len(numParts) != 3 {
		return v, &ParseError{Input: s, Context: fmt.Sprintf("expected three version components, found %d", len(numParts))}
	}

	var err error
	if v.Major, err = parseComponent(s, "major", numParts[0]); err != nil {
		return v, err
	}
	if v.Minor, err = parseComponent(s, "minor", numParts[1]); err != nil {
		return v, err
	}
	if v.Patch, err = parseComponent(s, "patch", numParts[2]); err != nil {
		return v, err
	}

	if hasPre {
		labelStr, numStr, ok := strings.Cut(pre, ".")
		if !ok {
			return v, &ParseError{Input: s, Context: fmt.Sprintf("pre-release %q must be <label>.<number>", pre)}
		}
		label, ok := parseLabel(labelStr)
		if !ok {
			return v, &ParseError{Input: s, Context: fmt.Sprintf("pre-release label %q must be alpha, beta or rc", labelStr)}
		}
		n, err := parseComponent(s, "pre-release number", numStr)
		if err != nil {
			return v, err
		}
		if n == 0 {
			return v, &ParseError{Input: s, Context: "pre-release number must be at least 1"}
		}
		v.PreRelease = &PreRelease{Label: label, Number: n}
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error. It is meant for
// constants in tests and examples.
func MustParseVersion(s string) SemanticVersion {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func parseComponent(input, name, s string) (uint64, error) {
	if s == "" {
		return 0, &ParseError{Input: input, Context: name + " component is empty"}
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, &ParseError{Input: input, Context: fmt.Sprintf("%s component %q has a leading zero", name, s)}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &ParseError{Input: input, Context: fmt.Sprintf("%s component must be a number but found %q", name, s), Err: err}
	}
	return n, nil
}

// MarshalText implements encoding.TextMarshaler.
func (v SemanticVersion) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *SemanticVersion) UnmarshalText(b []byte) error {
	parsed, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
