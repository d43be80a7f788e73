package nextver

import (
	"fmt"
	"strings"
)

// Level is the impact of a change as derived from conventional commits.
// Levels are totally ordered: LevelNone < LevelOther < LevelFix <
// LevelFeature < LevelBreaking.
type Level uint8

const (
	// LevelNone means no qualifying change. Classification never
	// produces it; it comes from a threshold downgrade.
	LevelNone Level = iota
	LevelOther
	LevelFix
	LevelFeature
	LevelBreaking
)

var levelNames = [...]string{
	LevelNone:     "none",
	LevelOther:    "other",
	LevelFix:      "fix",
	LevelFeature:  "feature",
	LevelBreaking: "breaking",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", uint8(l))
}

// ParseLevel parses a level name. Matching is case-insensitive and "feat"
// is accepted for LevelFeature.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return LevelNone, nil
	case "other":
		return LevelOther, nil
	case "fix":
		return LevelFix, nil
	case "feature", "feat":
		return LevelFeature, nil
	case "breaking":
		return LevelBreaking, nil
	}
	return LevelNone, fmt.Errorf("unknown change level %q (want other, fix, feature or breaking)", s)
}

// Set implements pflag.Value.
func (l *Level) Set(s string) error {
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Type implements pflag.Value.
func (l *Level) Type() string { return "level" }

// MarshalText renders the level name, so JSON and YAML output carry words.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (l *Level) UnmarshalText(b []byte) error {
	return l.Set(string(b))
}

// MaxLevel returns the highest of levels. The second result is false when
// levels is empty; there is no maximum of nothing.
func MaxLevel(levels ...Level) (Level, bool) {
	if len(levels) == 0 {
		return LevelNone, false
	}
	top := levels[0]
	for _, l := range levels[1:] {
		if l > top {
			top = l
		}
	}
	return top, true
}
