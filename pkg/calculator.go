package nextver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var discardLogger = slog.New(slog.DiscardHandler)

// Repository supplies the inputs of a calculation. Both sequences are fully
// materialized before the calculation starts.
type Repository interface {
	// Tags returns every tag name in the repository.
	Tags(ctx context.Context) ([]string, error)
	// CommitsSince returns the commits reachable from HEAD but not from tag,
	// each with the files it changed.
	CommitsSince(ctx context.Context, tag string) ([]Commit, error)
}

// Config holds the options of a calculation. It is passed by value and
// never modified by the calculator.
type Config struct {
	// Prefix identifies version tags, e.g. "v" for "v1.2.3".
	Prefix string
	// EnforceLevel is the level from which RequiredFiles are checked.
	EnforceLevel Level
	// RequiredFiles must all be changed before a release at or above
	// EnforceLevel.
	RequiredFiles []string
	// CheckLevel, when set, is the minimum level for a release. Below it
	// the result reports "none".
	CheckLevel *Level
	// Force replaces the calculated transition.
	Force *ForceDirective
	// FirstVersion promotes a calculated version that is still on the
	// unstable line to 1.0.0. A pre-release keeps its label and number.
	FirstVersion bool
	// ScopeFilter restricts commits to those touching this path prefix
	// (or a file at the repository root).
	ScopeFilter string
}

// DefaultConfig returns the defaults: prefix "v", files enforced from
// LevelFeature, no threshold and no force.
func DefaultConfig() Config {
	return Config{
		Prefix:       DefaultPrefix,
		EnforceLevel: LevelFeature,
	}
}

// Validate checks option combinations.
func (c Config) Validate() error {
	if c.EnforceLevel > LevelBreaking {
		return fmt.Errorf("invalid enforce level %s", c.EnforceLevel)
	}
	if c.CheckLevel != nil && *c.CheckLevel > LevelBreaking {
		return fmt.Errorf("invalid check level %s", *c.CheckLevel)
	}
	if c.Force != nil {
		if err := c.Force.Validate(); err != nil {
			return err
		}
	}
	if strings.ContainsAny(c.Prefix, " \t\n") {
		return fmt.Errorf("tag prefix %q must not contain whitespace", c.Prefix)
	}
	return nil
}

// Action returns the engine action selected by the config.
func (c Config) Action() Action {
	if c.Force != nil {
		return ForceAction(*c.Force)
	}
	return CalculateAction()
}

// Result is the outcome of a calculation.
type Result struct {
	Current VersionTag `json:"current" yaml:"current"`
	Next    VersionTag `json:"next" yaml:"next"`
	// Level is the reported level; LevelNone when the threshold was not met.
	Level Level `json:"level" yaml:"level"`
	// CommitLevel is the aggregate level of the commits in scope.
	CommitLevel  Level    `json:"commit_level" yaml:"commit_level"`
	Bump         Bump     `json:"bump" yaml:"bump"`
	Commits      int      `json:"commits" yaml:"commits"`
	ChangedFiles []string `json:"changed_files,omitempty" yaml:"changed_files,omitempty"`
	// BelowThreshold is set when CommitLevel did not reach the check level.
	BelowThreshold bool `json:"below_threshold,omitempty" yaml:"below_threshold,omitempty"`
}

// Released reports whether the result advances the version.
func (r Result) Released() bool {
	return r.Bump != BumpNone && !r.Next.Version.Equal(r.Current.Version)
}

// Calculate runs the pipeline over materialized inputs: scope filter,
// classification, required files, threshold, then the bump engine.
//
// On *MissingRequiredFilesError the returned Result still carries the
// commit level, with the version left at current.
func Calculate(cfg Config, current VersionTag, commits []Commit, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = discardLogger
	}
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	inScope := FilterScope(commits, cfg.ScopeFilter)
	if cfg.ScopeFilter != "" {
		logger.Debug("applied scope filter", "scope", cfg.ScopeFilter, "commits", len(commits), "in_scope", len(inScope))
	}

	res := Result{
		Current:      current,
		Next:         current,
		Level:        LevelNone,
		Bump:         BumpNone,
		Commits:      len(inScope),
		ChangedFiles: ChangedFiles(inScope),
	}

	level, err := Classifier{Logger: logger}.Aggregate(inScope)
	if err != nil {
		return res, err
	}
	res.Level = level
	res.CommitLevel = level
	logger.Info("classified commits", "commits", len(inScope), "level", level)

	if err := EnforceRequiredFiles(level, cfg.EnforceLevel, cfg.RequiredFiles, res.ChangedFiles); err != nil {
		logger.Error("release blocked by required files", "level", level, "enforce", cfg.EnforceLevel, "error", err)
		return res, err
	}

	if !CheckThreshold(level, cfg.CheckLevel) {
		logger.Info("change level does not reach the threshold", "level", level, "threshold", *cfg.CheckLevel)
		res.Level = LevelNone
		res.BelowThreshold = true
		return res, nil
	}

	engine := Engine{Logger: logger}
	next, bump, err := engine.Next(current.Version, level, cfg.Action())
	if err != nil {
		return res, err
	}

	if cfg.FirstVersion && cfg.Force == nil && bump != BumpNone && next.Major == 0 {
		logger.Debug("promoting to the first production version", "calculated", next)
		if pre := next.PreRelease; pre != nil {
			// Inside a train the label and number carry over to 1.0.0.
			next = firstVersion.WithPreRelease(pre.Label, pre.Number)
		} else {
			next, bump = firstVersion, BumpFirst
		}
	}

	res.Next = VersionTag{Prefix: current.Prefix, Version: next}
	res.Bump = bump
	return res, nil
}

// FilterScope keeps the commits that touch a file under scope, or a file at
// the repository root. An empty scope keeps everything.
func FilterScope(commits []Commit, scope string) []Commit {
	scope = strings.Trim(cleanRepoPath(scope), "/")
	if scope == "" || scope == "." {
		return commits
	}
	var out []Commit
	for _, c := range commits {
		for _, f := range c.Files {
			p := cleanRepoPath(f)
			if !strings.Contains(p, "/") || p == scope || strings.HasPrefix(p, scope+"/") {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Calculator runs calculations against a Repository.
type Calculator struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
}

// NewCalculator returns a Calculator. A nil logger discards output.
func NewCalculator(cfg Config, repo Repository, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = discardLogger
	}
	return &Calculator{cfg: cfg, repo: repo, logger: logger}
}

// CurrentTag returns the highest version tag for the configured prefix.
func (c *Calculator) CurrentTag(ctx context.Context) (VersionTag, error) {
	names, err := c.repo.Tags(ctx)
	if err != nil {
		return VersionTag{}, err
	}
	tag, err := LatestTag(c.cfg.Prefix, names)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			c.logger.Debug("malformed version tag", "tag", parseErr.Tag, "prefix", c.cfg.Prefix, "error", err)
		}
		return VersionTag{}, err
	}
	c.logger.Debug("found current version tag", "tag", tag)
	return tag, nil
}

// Commits returns the commits since the current version tag.
func (c *Calculator) Commits(ctx context.Context) (VersionTag, []Commit, error) {
	current, err := c.CurrentTag(ctx)
	if err != nil {
		return VersionTag{}, nil, err
	}
	commits, err := c.repo.CommitsSince(ctx, current.String())
	if err != nil {
		return current, nil, err
	}
	c.logger.Debug("loaded commits since tag", "tag", current, "commits", len(commits))
	return current, commits, nil
}

// Calculate loads the inputs from the repository and runs Calculate.
func (c *Calculator) Calculate(ctx context.Context) (Result, error) {
	current, commits, err := c.Commits(ctx)
	if err != nil {
		return Result{}, err
	}
	return Calculate(c.cfg, current, commits, c.logger)
}

// Explain classifies the commits in scope without calculating a version.
func (c *Calculator) Explain(ctx context.Context) (VersionTag, CommitSummary, error) {
	current, commits, err := c.Commits(ctx)
	if err != nil {
		return VersionTag{}, CommitSummary{}, err
	}
	inScope := FilterScope(commits, c.cfg.ScopeFilter)
	return current, Classifier{Logger: c.logger}.Summarize(inScope), nil
}
