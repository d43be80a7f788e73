package nextver

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
)

// ErrNotConventional is returned by ParseCommit for messages that do not
// follow the conventional commit header grammar.
var ErrNotConventional = errors.New("not a conventional commit")

// Commit is one commit in scope, as supplied by a Repository.
type Commit struct {
	Hash    string
	Message string
	Files   []string
}

// Footer is a trailer such as "Refs: #12" or "BREAKING CHANGE: ...".
type Footer struct {
	Token string
	Value string
}

// ConventionalCommit is a parsed "type(scope)!: description" message.
type ConventionalCommit struct {
	Type        string
	Scope       string
	Description string
	Body        string
	Footers     []Footer
	Breaking    bool
}

var (
	headerPattern = regexp.MustCompile(`^([A-Za-z]+)(?:\(([^()\r\n]*)\))?(!)?: (\S.*)$`)
	footerPattern = regexp.MustCompile(`^(BREAKING CHANGE|BREAKING-CHANGE|[A-Za-z][A-Za-z-]*)(?:: | #)(.*)$`)
)

// commitTypes maps the recognized types to their level when not breaking.
var commitTypes = map[string]Level{
	"feat":     LevelFeature,
	"fix":      LevelFix,
	"build":    LevelOther,
	"chore":    LevelOther,
	"ci":       LevelOther,
	"docs":     LevelOther,
	"perf":     LevelOther,
	"refactor": LevelOther,
	"style":    LevelOther,
	"test":     LevelOther,
	"revert":   LevelOther,
}

func isBreakingToken(token string) bool {
	return token == "BREAKING CHANGE" || token == "BREAKING-CHANGE"
}

// ParseCommit parses a full commit message. The first line must be a
// conventional header; everything from the first paragraph that opens with
// a "Token: value" line is read as footers.
func ParseCommit(message string) (ConventionalCommit, error) {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	header, rest, _ := strings.Cut(strings.TrimLeft(message, "\n"), "\n")

	m := headerPattern.FindStringSubmatch(strings.TrimRight(header, " \t"))
	if m == nil {
		return ConventionalCommit{}, ErrNotConventional
	}
	cc := ConventionalCommit{
		Type:        strings.ToLower(m[1]),
		Scope:       m[2],
		Breaking:    m[3] == "!",
		Description: m[4],
	}

	body, footers := splitFooters(rest)
	cc.Body = strings.Join(splitParagraphs(body), "\n\n")
	cc.Footers = footers

	for _, f := range cc.Footers {
		if isBreakingToken(f.Token) {
			cc.Breaking = true
		}
	}
	return cc, nil
}

func splitParagraphs(s string) []string {
	var out []string
	var cur []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				out = append(out, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, "\n"))
	}
	return out
}

// splitFooters separates the body from the footer block. The block starts
// at the first paragraph that opens with a "Token: value" line and runs to
// the end of the message. Lines that are not a new token, blank ones
// included, continue the previous footer's value.
func splitFooters(rest string) (string, []Footer) {
	lines := strings.Split(rest, "\n")
	start := -1
	for i, line := range lines {
		paragraphStart := i == 0 || strings.TrimSpace(lines[i-1]) == ""
		if paragraphStart && footerPattern.MatchString(line) {
			start = i
			break
		}
	}
	if start < 0 {
		return rest, nil
	}

	var footers []Footer
	for _, line := range lines[start:] {
		if m := footerPattern.FindStringSubmatch(line); m != nil {
			footers = append(footers, Footer{Token: m[1], Value: m[2]})
			continue
		}
		last := &footers[len(footers)-1]
		last.Value += "\n" + line
	}
	for i := range footers {
		footers[i].Value = strings.TrimRight(footers[i].Value, " \t\n")
	}
	return strings.Join(lines[:start], "\n"), footers
}

// Level returns the change level of a parsed commit.
func (c ConventionalCommit) Level() Level {
	if c.Breaking {
		return LevelBreaking
	}
	if l, ok := commitTypes[c.Type]; ok {
		return l
	}
	return LevelOther
}

// Classifier reduces commit messages to change levels.
type Classifier struct {
	Logger *slog.Logger
}

func (c Classifier) logger() *slog.Logger {
	if c.Logger == nil {
		return discardLogger
	}
	return c.Logger
}

// Classify returns the level of a single message. Messages that are not
// conventional commits are LevelOther.
func (c Classifier) Classify(message string) Level {
	cc, err := ParseCommit(message)
	if err != nil {
		c.logger().Debug("commit is not conventional, classified as other", "summary", firstLine(message))
		return LevelOther
	}
	if _, known := commitTypes[cc.Type]; !known && !cc.Breaking {
		c.logger().Debug("unrecognized commit type, classified as other", "type", cc.Type)
	}
	return cc.Level()
}

// Aggregate returns the highest level over commits, or ErrNoCommitsFound
// when commits is empty.
func (c Classifier) Aggregate(commits []Commit) (Level, error) {
	levels := make([]Level, 0, len(commits))
	for _, cm := range commits {
		levels = append(levels, c.Classify(cm.Message))
	}
	top, ok := MaxLevel(levels...)
	if !ok {
		return LevelNone, ErrNoCommitsFound
	}
	return top, nil
}

// Classify uses a Classifier without logging.
func Classify(message string) Level {
	return Classifier{}.Classify(message)
}

// Aggregate uses a Classifier without logging.
func Aggregate(commits []Commit) (Level, error) {
	return Classifier{}.Aggregate(commits)
}

// ClassifiedCommit pairs a commit with its classification.
type ClassifiedCommit struct {
	Commit       Commit
	Conventional *ConventionalCommit
	Level        Level
}

// CommitSummary is a per-commit breakdown of a commit list.
type CommitSummary struct {
	Commits []ClassifiedCommit
	// Counts is keyed by commit type; non-conventional commits count
	// under "".
	Counts   map[string]int
	Breaking int
	Level    Level
}

// Summarize classifies every commit and counts them by type.
func (c Classifier) Summarize(commits []Commit) CommitSummary {
	s := CommitSummary{Counts: make(map[string]int)}
	for _, cm := range commits {
		entry := ClassifiedCommit{Commit: cm, Level: c.Classify(cm.Message)}
		if cc, err := ParseCommit(cm.Message); err == nil {
			entry.Conventional = &cc
			s.Counts[cc.Type]++
			if cc.Breaking {
				s.Breaking++
			}
		} else {
			s.Counts[""]++
		}
		if entry.Level > s.Level {
			s.Level = entry.Level
		}
		s.Commits = append(s.Commits, entry)
	}
	return s
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
