package nextver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bumpTo(t *testing.T, current string, level Level, action Action) (string, Bump) {
	t.Helper()
	v, bump, err := Engine{}.Next(MustParseVersion(current), level, action)
	require.NoError(t, err, "Next(%s, %s, %s)", current, level, action)
	return v.String(), bump
}

// TestCalculatedBump covers the commit-driven transitions on both lines and
// inside a pre-release train.
func TestCalculatedBump(t *testing.T) {
	tests := []struct {
		current  string
		level    Level
		expected string
		bump     Bump
	}{
		// unstable line
		{"0.1.0", LevelFeature, "0.1.1", BumpPatch},
		{"0.1.3", LevelBreaking, "0.2.0", BumpMinor},
		{"0.1.3", LevelFix, "0.1.4", BumpPatch},
		{"0.1.3", LevelOther, "0.1.3", BumpNone},
		{"0.0.0", LevelFeature, "0.0.1", BumpPatch},
		// stable line
		{"1.2.3", LevelBreaking, "2.0.0", BumpMajor},
		{"1.2.3", LevelFeature, "1.3.0", BumpMinor},
		{"1.2.3", LevelFix, "1.2.4", BumpPatch},
		{"1.2.3", LevelOther, "1.2.3", BumpNone},
		{"1.2.3", LevelNone, "1.2.3", BumpNone},
		// pre-release trains
		{"0.3.1-alpha.1", LevelFix, "0.3.1-alpha.2", BumpAlpha},
		{"1.0.0-beta.4", LevelBreaking, "1.0.0-beta.5", BumpBeta},
		{"2.0.0-rc.1", LevelOther, "2.0.0-rc.2", BumpRC},
		{"2.0.0-rc.1", LevelNone, "2.0.0-rc.1", BumpNone},
	}
	for _, tc := range tests {
		got, bump := bumpTo(t, tc.current, tc.level, CalculateAction())
		assert.Equal(t, tc.expected, got, "calculate(%s, %s)", tc.current, tc.level)
		assert.Equal(t, tc.bump, bump, "calculate(%s, %s)", tc.current, tc.level)
	}
}

func TestCalculatedBumpProperties(t *testing.T) {
	var versions []SemanticVersion
	for major := uint64(0); major < 4; major++ {
		for minor := uint64(0); minor < 4; minor++ {
			for patch := uint64(0); patch < 4; patch++ {
				versions = append(versions, SemanticVersion{Major: major, Minor: minor, Patch: patch})
			}
		}
	}
	e := Engine{}
	for _, v := range versions {
		breaking, _, err := e.Next(v, LevelBreaking, CalculateAction())
		require.NoError(t, err)
		feature, _, err := e.Next(v, LevelFeature, CalculateAction())
		require.NoError(t, err)
		fix, _, err := e.Next(v, LevelFix, CalculateAction())
		require.NoError(t, err)

		if v.Major == 0 {
			assert.Equal(t, v.Minor+1, breaking.Minor, "%s breaking", v)
			assert.Zero(t, breaking.Patch, "%s breaking", v)
			assert.Equal(t, v.Patch+1, feature.Patch, "%s feature", v)
			assert.Equal(t, v.Patch+1, fix.Patch, "%s fix", v)
		} else {
			assert.Equal(t, v.Major+1, breaking.Major, "%s breaking", v)
			assert.Zero(t, breaking.Minor, "%s breaking", v)
			assert.Zero(t, breaking.Patch, "%s breaking", v)
			assert.Equal(t, v.Minor+1, feature.Minor, "%s feature", v)
			assert.Zero(t, feature.Patch, "%s feature", v)
			assert.Equal(t, v.Patch+1, fix.Patch, "%s fix", v)
		}
		for _, got := range []SemanticVersion{breaking, feature, fix} {
			assert.Equal(t, 1, got.Compare(v), "%s must advance to %s", v, got)
		}
	}
}

func TestForcedBump(t *testing.T) {
	force := func(k ForceKind) Action { return ForceAction(ForceDirective{Kind: k}) }
	first := func(k ForceKind) Action { return ForceAction(ForceDirective{Kind: k, AsFirst: true}) }

	tests := []struct {
		current  string
		level    Level
		action   Action
		expected string
		bump     Bump
	}{
		{"1.2.3", LevelOther, force(ForceMajor), "2.0.0", BumpMajor},
		{"1.2.3", LevelBreaking, force(ForceMinor), "1.3.0", BumpMinor},
		{"1.2.3", LevelBreaking, force(ForcePatch), "1.2.4", BumpPatch},
		{"1.3.0-rc.2", LevelFix, force(ForceMajor), "2.0.0", BumpMajor},
		{"0.3.1-rc.1", LevelFix, force(ForceRelease), "0.3.1", BumpRelease},
		{"1.0.0-rc.1", LevelFix, force(ForceRelease), "1.0.0", BumpRelease},
		{"1.2.3", LevelFix, force(ForceRelease), "1.2.3", BumpNone},
		{"0.9.4", LevelFix, force(ForceFirst), "1.0.0", BumpFirst},
		{"0.9.4-beta.2", LevelFix, force(ForceFirst), "1.0.0", BumpFirst},
		{"1.0.0-rc.3", LevelFix, force(ForceFirst), "1.0.0", BumpFirst},
		// same label continues the train
		{"1.1.0-rc.1", LevelOther, force(ForceRC), "1.1.0-rc.2", BumpRC},
		// trains move forward
		{"1.1.0-alpha.3", LevelOther, force(ForceBeta), "1.1.0-beta.1", BumpBeta},
		{"1.1.0-beta.3", LevelOther, force(ForceRC), "1.1.0-rc.1", BumpRC},
		// starting a train targets the calculated version
		{"1.2.3", LevelFeature, force(ForceRC), "1.3.0-rc.1", BumpRC},
		{"1.2.3", LevelBreaking, force(ForceAlpha), "2.0.0-alpha.1", BumpAlpha},
		{"0.4.2", LevelBreaking, force(ForceBeta), "0.5.0-beta.1", BumpBeta},
		{"1.2.3", LevelOther, force(ForceRC), "1.2.4-rc.1", BumpRC},
		// or 1.0.0 when asked to
		{"0.9.4", LevelFix, first(ForceRC), "1.0.0-rc.1", BumpRC},
		{"0.1.0", LevelBreaking, first(ForceAlpha), "1.0.0-alpha.1", BumpAlpha},
	}
	for _, tc := range tests {
		got, bump := bumpTo(t, tc.current, tc.level, tc.action)
		assert.Equal(t, tc.expected, got, "%s from %s", tc.action, tc.current)
		assert.Equal(t, tc.bump, bump, "%s from %s", tc.action, tc.current)
	}
}

func TestForceReleaseIdempotent(t *testing.T) {
	e := Engine{}
	release := ForceAction(ForceDirective{Kind: ForceRelease})
	for _, s := range []string{"0.3.1-rc.1", "1.0.0-alpha.4", "2.3.4", "0.0.1"} {
		once, _, err := e.Next(MustParseVersion(s), LevelFix, release)
		require.NoError(t, err)
		twice, _, err := e.Next(once, LevelFix, release)
		require.NoError(t, err)
		assert.True(t, once.Equal(twice), "release(release(%s)) = %s, release(%s) = %s", s, twice, s, once)
	}
}

func TestInvalidForceTransitions(t *testing.T) {
	tests := []struct {
		current string
		action  ForceDirective
	}{
		{"1.1.0-rc.1", ForceDirective{Kind: ForceBeta}},
		{"1.1.0-rc.1", ForceDirective{Kind: ForceAlpha}},
		{"1.1.0-beta.2", ForceDirective{Kind: ForceAlpha}},
		{"1.2.3", ForceDirective{Kind: ForceFirst}},
		{"2.0.0-rc.1", ForceDirective{Kind: ForceFirst}},
		{"1.2.3", ForceDirective{Kind: ForceRC, AsFirst: true}},
		{"0.1.0", ForceDirective{Kind: ForceMajor, AsFirst: true}},
		{"0.1.0", ForceDirective{Kind: ForceKind(42)}},
	}
	for _, tc := range tests {
		current := MustParseVersion(tc.current)
		v, bump, err := Engine{}.Next(current, LevelFix, ForceAction(tc.action))
		var forceErr *InvalidForceTransitionError
		require.True(t, errors.As(err, &forceErr), "%s from %s: got %v", tc.action, tc.current, err)
		assert.True(t, forceErr.From.Equal(current))
		assert.Equal(t, tc.action, forceErr.Directive)
		assert.True(t, v.Equal(current), "the version is left unchanged")
		assert.Equal(t, BumpNone, bump)
	}
}

func TestBumpOverflow(t *testing.T) {
	const top = "18446744073709551615"
	tests := []struct {
		current string
		level   Level
		action  Action
	}{
		{"1.0.0-rc." + top, LevelFix, CalculateAction()},
		{"1.0.0-rc." + top, LevelFix, ForceAction(ForceDirective{Kind: ForceRC})},
		{top + ".0.0", LevelBreaking, CalculateAction()},
		{"1." + top + ".0", LevelFeature, CalculateAction()},
		{"1.2." + top, LevelFix, CalculateAction()},
		{"0.1." + top, LevelFix, CalculateAction()},
		{top + ".0.0", LevelNone, ForceAction(ForceDirective{Kind: ForceMajor})},
		{"0.1." + top, LevelOther, ForceAction(ForceDirective{Kind: ForceBeta})},
	}
	for _, tc := range tests {
		current := MustParseVersion(tc.current)
		v, bump, err := Engine{}.Next(current, tc.level, tc.action)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "%s from %s: got %v", tc.action, tc.current, err)
		assert.ErrorIs(t, err, ErrVersionOverflow)
		assert.True(t, v.Equal(current), "the version is left unchanged")
		assert.Equal(t, BumpNone, bump)
	}

	// The largest component only overflows when it is the one incremented.
	v, bump, err := Engine{}.Next(MustParseVersion("1."+top+".4"), LevelBreaking, CalculateAction())
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", v.String())
	assert.Equal(t, BumpMajor, bump)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "calculate", CalculateAction().String())
	assert.Equal(t, "force rc (first)", ForceAction(ForceDirective{Kind: ForceRC, AsFirst: true}).String())
	assert.Equal(t, "force major", ForceAction(ForceDirective{Kind: ForceMajor}).String())
}
