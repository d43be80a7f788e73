package nextver

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleResult() Result {
	return Result{
		Current:      tagOf("1.2.3"),
		Next:         tagOf("1.3.0"),
		Level:        LevelFeature,
		CommitLevel:  LevelFeature,
		Bump:         BumpMinor,
		Commits:      2,
		ChangedFiles: []string{"main.go"},
	}
}

func TestReportText(t *testing.T) {
	res := sampleResult()
	tests := []struct {
		opts     ReportOptions
		expected string
	}{
		{ReportOptions{Bump: true}, "minor"},
		{ReportOptions{Number: true}, "v1.3.0"},
		{ReportOptions{Bump: true, Number: true}, "minor\nv1.3.0"},
		{ReportOptions{}, ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, tc.opts.Text(res), "%+v", tc.opts)
	}

	none := Result{Current: tagOf("1.2.3"), Next: tagOf("1.2.3"), Bump: BumpNone}
	assert.Equal(t, "none", ReportOptions{Bump: true, Number: true}.Text(none), "nothing released prints only none")
	assert.Equal(t, "none", ReportOptions{Number: true}.Text(none))
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, sampleResult(), DefaultReportOptions()))
	assert.Equal(t, "minor\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteReport(&buf, sampleResult(), ReportOptions{Format: FormatJSON}))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "v1.2.3", decoded["current"])
	assert.Equal(t, "v1.3.0", decoded["next"])
	assert.Equal(t, "feature", decoded["level"])
	assert.Equal(t, "minor", decoded["bump"])
	assert.NotContains(t, decoded, "below_threshold")

	buf.Reset()
	require.NoError(t, WriteReport(&buf, sampleResult(), ReportOptions{Format: FormatYAML}))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &y))
	assert.Equal(t, "v1.3.0", y["next"])
	assert.Equal(t, "feature", y["commit_level"])
	assert.Equal(t, 2, y["commits"])
	assert.Equal(t, []any{"main.go"}, y["changed_files"])

	buf.Reset()
	require.NoError(t, WriteReport(&buf, sampleResult(), ReportOptions{Format: FormatText}))
	assert.Empty(t, buf.String())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("toml")
	assert.Error(t, err)
}

func TestSetEnv(t *testing.T) {
	t.Setenv("GITHUB_ENV", "")
	var buf bytes.Buffer
	require.NoError(t, SetEnv(&buf, "NEXT_BUMP", "minor"))
	assert.Equal(t, "export NEXT_BUMP=minor\n", buf.String())

	envFile := filepath.Join(t.TempDir(), "github_env")
	require.NoError(t, os.WriteFile(envFile, []byte("EXISTING=1\n"), 0644))
	t.Setenv("GITHUB_ENV", envFile)
	buf.Reset()
	require.NoError(t, SetEnv(&buf, "NEXT_BUMP", "patch"))
	assert.Empty(t, buf.String())
	data, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, "EXISTING=1\nNEXT_BUMP=patch\n", string(data))

	assert.Error(t, SetEnv(&buf, "BAD NAME", "x"))
	assert.Error(t, SetEnv(&buf, "", "x"))
}

func TestWriteExplain(t *testing.T) {
	commits := []Commit{
		{Hash: "0123456789abcdef", Message: "feat(cli)!: new flags\n\nbody"},
		{Hash: "fedcba9876543210", Message: "Update README"},
	}
	s := Classifier{}.Summarize(commits)

	var buf bytes.Buffer
	require.NoError(t, WriteExplain(&buf, tagOf("0.4.0"), s, false))
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Commits since v0.4.0", lines[0])
	assert.Contains(t, lines[1], "0123456")
	assert.Contains(t, lines[1], "breaking")
	assert.Contains(t, lines[1], "feat(cli)!")
	assert.Contains(t, lines[1], "new flags")
	assert.NotContains(t, out, "body")
	assert.Contains(t, lines[2], "fedcba9")
	assert.Contains(t, lines[2], "other")
	assert.Equal(t, "Total 2 commits (non-conventional=1, feat=1), 1 breaking", lines[3])
	assert.Equal(t, "Level breaking", lines[4])
	assert.NotContains(t, out, "\x1b[", "no escape codes when unstyled")
}
