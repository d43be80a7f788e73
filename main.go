// Package main implements a CLI tool that calculates the next semantic
// version of a git repository from its conventional commits.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	nextver "github.com/bcomnes/nextver/pkg"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	dir        string
	configFile string
	verbose    int
	quiet      bool

	// Typed flags validate their values while parsing.
	enforce nextver.Level
	check   nextver.Level
	force   nextver.ForceKind

	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{
		stdout:  stdout,
		stderr:  stderr,
		enforce: nextver.LevelFeature,
		logger:  slog.New(slog.DiscardHandler),
	}

	root := &cobra.Command{
		Use:   "nextver [flags]",
		Short: "Calculate the next semantic version from conventional commits",
		Long: `Calculate the next semantic version of a git repository.

The latest version tag (default prefix "v") is located and every commit since
it is classified by its conventional commit type. The highest change level
decides the bump: breaking changes bump major, features minor and fixes patch.
While the major version is 0, breaking changes bump minor and everything else
bumps patch. A pre-release advances its own number.

Exit codes:
  0  success
  10 unexpected error
  11 malformed version tag
  12 no version tag found or git failed
  13 required files not changed
  14 change level below --check (with --fail-below-threshold)
  15 no commits since the last version tag
  16 forced transition not allowed from the current version`,
		Example: `  nextver
  nextver --number
  nextver --force rc --first
  nextver --require CHANGELOG.md --enforce feature
  nextver --package ./tools --format json`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.logger = newLogger(c.stderr, c.verbose, c.quiet)
		},
		RunE: c.runCalculate,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("nextver CLI version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&c.dir, "dir", "C", ".", "run as if started in this directory")
	pf.StringVar(&c.configFile, "config", "", "config file (default .nextver.yaml in the repository root)")
	pf.CountVarP(&c.verbose, "verbose", "v", "log more; repeat for debug output")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "log errors only")
	pf.StringP(nextver.KeyPrefix, "p", nextver.DefaultPrefix, "prefix of version tags")
	pf.String(nextver.KeyScope, "", "only count commits touching this path (root files always count)")
	pf.String(nextver.KeyPackage, "", "Go workspace module to version, by module path or directory")

	f := root.Flags()
	f.VarP(&c.force, nextver.KeyForce, "f", "force a transition: major, minor, patch, first, release, rc, beta or alpha")
	f.VarP(&c.enforce, nextver.KeyEnforce, "e", "level from which required files are enforced")
	f.StringSliceP(nextver.KeyRequire, "r", nil, "file that must change for a release at or above --enforce (repeatable)")
	f.VarP(&c.check, nextver.KeyCheck, "c", "minimum level for a release; below it the result is none")
	f.Bool(nextver.KeyFirst, false, "promote the next version to 1.0.0 (with rc, beta or alpha: start a 1.0.0 pre-release)")
	f.BoolP(nextver.KeyNumber, "n", false, "print the next version")
	f.BoolP(nextver.KeyNoBump, "b", false, "do not print the bump")
	f.String(nextver.KeySetEnv, "", "export the bump into this environment variable via $GITHUB_ENV")
	f.String(nextver.KeyFormat, string(nextver.FormatText), "output format: text, json or yaml")
	f.Bool(nextver.KeyFailBelowThreshold, false, "exit with an error when the level is below --check")

	calculate := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the next version (default command)",
		Args:  cobra.NoArgs,
		RunE:  c.runCalculate,
	}
	calculate.Flags().AddFlagSet(f)

	root.AddCommand(calculate, newExplainCmd(c), newVersionCmd(c))
	return root
}

func newLogger(w io.Writer, verbose int, quiet bool) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case quiet:
		level = slog.LevelError
	case verbose >= 2:
		level = slog.LevelDebug
	case verbose == 1:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return nextver.ExitCode(err)
	}
	return nextver.ExitSuccess
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
