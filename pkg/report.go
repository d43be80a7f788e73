package nextver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Format selects the result encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses text, json or yaml. The empty string is text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// ReportOptions selects what a text report prints.
type ReportOptions struct {
	Format Format
	// Bump prints the bump word, e.g. "minor".
	Bump bool
	// Number prints the next version tag, e.g. "v1.3.0".
	Number bool
	// SetEnv, when set, names an environment variable that receives the
	// bump word.
	SetEnv string
}

// DefaultReportOptions prints the bump word as text.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{Format: FormatText, Bump: true}
}

// Text renders the text report: the bump word, the next version, or both
// on separate lines. When nothing is released only the bump word "none" is
// printed.
func (o ReportOptions) Text(res Result) string {
	if !res.Released() {
		return BumpNone.String()
	}
	var lines []string
	if o.Bump {
		lines = append(lines, res.Bump.String())
	}
	if o.Number {
		lines = append(lines, res.Next.String())
	}
	return strings.Join(lines, "\n")
}

// WriteReport writes res to w in the selected format.
func WriteReport(w io.Writer, res Result, o ReportOptions) error {
	switch o.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		text := o.Text(res)
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintln(w, text)
		return err
	}
}

// SetEnv exports name=value for later CI steps. With $GITHUB_ENV set the
// pair is appended to that file; otherwise an export line is written to w.
func SetEnv(w io.Writer, name, value string) error {
	if strings.ContainsAny(name, "= \t\n") || name == "" {
		return fmt.Errorf("invalid environment variable name %q", name)
	}
	if path := os.Getenv("GITHUB_ENV"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening GITHUB_ENV: %w", err)
		}
		if _, err := fmt.Fprintf(f, "%s=%s\n", name, value); err != nil {
			f.Close()
			return fmt.Errorf("writing GITHUB_ENV: %w", err)
		}
		return f.Close()
	}
	_, err := fmt.Fprintf(w, "export %s=%s\n", name, value)
	return err
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	hashStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4"))
	levelStyles = map[Level]lipgloss.Style{
		LevelOther:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6272a4")),
		LevelFix:      lipgloss.NewStyle().Foreground(lipgloss.Color("#50fa7b")),
		LevelFeature:  lipgloss.NewStyle().Foreground(lipgloss.Color("#8be9fd")),
		LevelBreaking: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555")).Bold(true),
	}
)

// WriteExplain writes a commit-by-commit classification. Colors are used
// only when styled is true.
func WriteExplain(w io.Writer, current VersionTag, s CommitSummary, styled bool) error {
	render := func(st lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return st.Render(text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", render(headerStyle, "Commits since"), current)
	for _, c := range s.Commits {
		kind := "-"
		if c.Conventional != nil {
			kind = c.Conventional.Type
			if c.Conventional.Scope != "" {
				kind += "(" + c.Conventional.Scope + ")"
			}
			if c.Conventional.Breaking {
				kind += "!"
			}
		}
		level := fmt.Sprintf("%-8s", c.Level)
		fmt.Fprintf(&b, "  %s %s %-16s %s\n",
			render(hashStyle, shortHash(c.Commit.Hash)),
			render(levelStyles[c.Level], level),
			kind,
			firstLine(c.Commit.Message))
	}

	types := make([]string, 0, len(s.Counts))
	for t := range s.Counts {
		types = append(types, t)
	}
	slices.Sort(types)
	var counts []string
	for _, t := range types {
		name := t
		if name == "" {
			name = "non-conventional"
		}
		counts = append(counts, fmt.Sprintf("%s=%d", name, s.Counts[t]))
	}
	fmt.Fprintf(&b, "%s %d commits", render(headerStyle, "Total"), len(s.Commits))
	if len(counts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(counts, ", "))
	}
	if s.Breaking > 0 {
		fmt.Fprintf(&b, ", %d breaking", s.Breaking)
	}
	fmt.Fprintf(&b, "\n%s %s\n", render(headerStyle, "Level"), render(levelStyles[s.Level], s.Level.String()))

	_, err := io.WriteString(w, b.String())
	return err
}
