package main

import (
	"context"
	"fmt"
	"path/filepath"

	nextver "github.com/bcomnes/nextver/pkg"
	"github.com/spf13/cobra"
)

// setup is everything a command needs once flags, environment and config
// file have been merged.
type setup struct {
	repo   *nextver.GitRepository
	opts   nextver.Options
	cfg    nextver.Config
	module *nextver.WorkspaceModule
}

func (c *cli) load(ctx context.Context, cmd *cobra.Command) (setup, error) {
	repo, err := nextver.OpenGitRepository(ctx, c.dir, c.logger)
	if err != nil {
		return setup{}, err
	}
	v, err := nextver.NewViper(c.configFile, repo.Dir)
	if err != nil {
		return setup{}, err
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return setup{}, fmt.Errorf("binding flags: %w", err)
	}

	s := setup{repo: repo, opts: nextver.LoadOptions(v)}
	s.cfg, err = s.opts.Config()
	if err != nil {
		return setup{}, err
	}

	if s.opts.Package != "" {
		root, err := nextver.LocateWorkspace(c.dir)
		if err != nil {
			return setup{}, err
		}
		m, err := nextver.ResolvePackage(root, s.opts.Package)
		if err != nil {
			return setup{}, err
		}
		dir, err := filepath.EvalSymlinks(m.Dir)
		if err != nil {
			return setup{}, err
		}
		rel, err := filepath.Rel(repo.Dir, dir)
		if err != nil {
			return setup{}, fmt.Errorf("module %s is outside the repository: %w", m.Path, err)
		}
		s.cfg = s.cfg.ForModuleDir(filepath.ToSlash(rel))
		s.module = &m
		c.logger.Info("resolved workspace module", "module", m.Path, "scope", s.cfg.ScopeFilter, "prefix", s.cfg.Prefix)
	}
	return s, nil
}

func (c *cli) runCalculate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := c.load(ctx, cmd)
	if err != nil {
		return err
	}
	report, err := s.opts.ReportOptions()
	if err != nil {
		return err
	}

	res, err := nextver.NewCalculator(s.cfg, s.repo, c.logger).Calculate(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("calculated next version", "current", res.Current, "next", res.Next, "bump", res.Bump)

	if s.module != nil && res.Released() {
		if err := nextver.CheckMajorSuffix(s.module.Path, res.Next.Version); err != nil {
			c.logger.Warn("module path does not match the next version", "error", err)
		}
	}

	if report.SetEnv != "" {
		if err := nextver.SetEnv(c.stdout, report.SetEnv, res.Bump.String()); err != nil {
			return err
		}
	}
	if err := nextver.WriteReport(c.stdout, res, report); err != nil {
		return err
	}

	if res.BelowThreshold && s.opts.FailBelowThreshold {
		return fmt.Errorf("%w: %s is below %s", nextver.ErrThresholdNotMet, res.CommitLevel, *s.cfg.CheckLevel)
	}
	return nil
}
