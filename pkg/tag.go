package nextver

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// DefaultPrefix is the tag prefix used when none is configured.
const DefaultPrefix = "v"

// VersionTag is a repository tag of the form <prefix><version>.
type VersionTag struct {
	Prefix  string
	Version SemanticVersion
}

// String returns the tag name, e.g. "v1.2.3-beta.2".
func (t VersionTag) String() string {
	return t.Prefix + t.Version.String()
}

// MarshalText renders the tag name.
func (t VersionTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// candidatePattern matches tags that claim to be version tags for prefix.
// Anything it matches must then parse fully or the tag is malformed.
func candidatePattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `\d+\.\d+\.\d+`)
}

// IsVersionTagCandidate reports whether name looks like a version tag for
// prefix. Candidates that fail ParseTag are malformed, not foreign.
func IsVersionTagCandidate(prefix, name string) bool {
	return candidatePattern(prefix).MatchString(name)
}

// ParseTag parses a tag name of the form <prefix><major>.<minor>.<patch>
// optionally followed by -<alpha|beta|rc>.<number>.
func ParseTag(prefix, name string) (VersionTag, error) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return VersionTag{}, &ParseError{Input: name, Tag: name, Context: fmt.Sprintf("version tags must start with %q", prefix)}
	}
	v, err := ParseVersion(rest)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Tag = name
		}
		return VersionTag{}, fmt.Errorf("tag %s: %w", name, err)
	}
	return VersionTag{Prefix: prefix, Version: v}, nil
}

// LatestTag returns the highest version tag among names. Names that are not
// candidates for prefix are ignored; candidates that do not parse are a
// fatal error. ErrNoVersionTag is returned when nothing matches.
func LatestTag(prefix string, names []string) (VersionTag, error) {
	re := candidatePattern(prefix)

	var tags []VersionTag
	for _, name := range names {
		if !re.MatchString(name) {
			continue
		}
		tag, err := ParseTag(prefix, name)
		if err != nil {
			return VersionTag{}, err
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return VersionTag{}, fmt.Errorf("%w (prefix %q)", ErrNoVersionTag, prefix)
	}

	return slices.MaxFunc(tags, func(a, b VersionTag) int {
		return a.Version.Compare(b.Version)
	}), nil
}
