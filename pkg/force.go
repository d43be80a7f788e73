package nextver

import (
	"fmt"
	"strings"
)

// ForceKind names an explicit version transition that ignores the commit
// level.
type ForceKind uint8

const (
	ForceMajor ForceKind = iota + 1
	ForceMinor
	ForcePatch
	ForceFirst
	ForceRelease
	ForceRC
	ForceBeta
	ForceAlpha
)

var forceNames = map[ForceKind]string{
	ForceMajor:   "major",
	ForceMinor:   "minor",
	ForcePatch:   "patch",
	ForceFirst:   "first",
	ForceRelease: "release",
	ForceRC:      "rc",
	ForceBeta:    "beta",
	ForceAlpha:   "alpha",
}

// String returns the directive name, or "" for the zero kind so that an
// unset flag prints nothing.
func (k ForceKind) String() string {
	if k == 0 {
		return ""
	}
	if s, ok := forceNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ForceKind(%d)", uint8(k))
}

// ParseForceKind parses one of major, minor, patch, first, release, rc,
// beta or alpha. "1.0.0" is accepted for first.
func ParseForceKind(s string) (ForceKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "1.0.0" {
		return ForceFirst, nil
	}
	for k, n := range forceNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown force directive %q (want major, minor, patch, first, release, rc, beta or alpha)", s)
}

// Set implements pflag.Value.
func (k *ForceKind) Set(s string) error {
	parsed, err := ParseForceKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Type implements pflag.Value.
func (k *ForceKind) Type() string { return "force" }

// label is the pre-release train selected by rc, beta and alpha.
func (k ForceKind) label() (PreReleaseLabel, bool) {
	switch k {
	case ForceAlpha:
		return Alpha, true
	case ForceBeta:
		return Beta, true
	case ForceRC:
		return RC, true
	}
	return 0, false
}

// ForceDirective is a forced transition. AsFirst only applies to the
// pre-release kinds: the train then targets 1.0.0 instead of the next
// calculated version.
type ForceDirective struct {
	Kind    ForceKind
	AsFirst bool
}

func (d ForceDirective) String() string {
	if d.AsFirst {
		return d.Kind.String() + " (first)"
	}
	return d.Kind.String()
}

// Validate checks that AsFirst is only combined with a pre-release kind.
func (d ForceDirective) Validate() error {
	if _, ok := forceNames[d.Kind]; !ok {
		return fmt.Errorf("invalid force directive %d", uint8(d.Kind))
	}
	if _, isPre := d.Kind.label(); d.AsFirst && !isPre {
		return fmt.Errorf("the first flag can only be combined with rc, beta or alpha, not %s", d.Kind)
	}
	return nil
}
