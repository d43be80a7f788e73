package nextver

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"golang.org/x/sync/errgroup"
)

// GitRepository reads tags and commits by running the git binary in Dir.
type GitRepository struct {
	Dir    string
	Logger *slog.Logger
	// Concurrency bounds the number of commits loaded in parallel.
	// Zero means GOMAXPROCS.
	Concurrency int
}

// checkGit verifies that git is available on the system.
func checkGit(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "git", "--version").Run(); err != nil {
		return fmt.Errorf("%w: git is not available on the system", ErrGit)
	}
	return nil
}

// OpenGitRepository returns a GitRepository rooted at the top level of the
// work tree containing dir.
func OpenGitRepository(ctx context.Context, dir string, logger *slog.Logger) (*GitRepository, error) {
	if err := checkGit(ctx); err != nil {
		return nil, err
	}
	r := &GitRepository{Dir: dir, Logger: logger}
	out, err := r.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	r.Dir = strings.TrimSpace(string(out))
	r.logger().Debug("opened git repository", "dir", r.Dir)
	return r, nil
}

func (r *GitRepository) logger() *slog.Logger {
	if r.Logger == nil {
		return discardLogger
	}
	return r.Logger
}

// git runs a git subcommand and returns its stdout.
func (r *GitRepository) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: git %s failed: %v, detail: %s", ErrGit, args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Tags lists every tag in the repository.
func (r *GitRepository) Tags(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(out), nil
}

// CommitsSince returns the non-merge commits reachable from HEAD and not
// from tag, newest first.
func (r *GitRepository) CommitsSince(ctx context.Context, tag string) ([]Commit, error) {
	out, err := r.git(ctx, "rev-list", "--no-merges", tag+"..HEAD")
	if err != nil {
		return nil, err
	}
	hashes := nonEmptyLines(out)
	r.logger().Debug("walking commits back to tag", "tag", tag, "commits", len(hashes))

	commits := make([]Commit, len(hashes))
	g, gctx := errgroup.WithContext(ctx)
	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, hash := range hashes {
		g.Go(func() error {
			c, err := r.loadCommit(gctx, hash)
			if err != nil {
				return err
			}
			commits[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}

func (r *GitRepository) loadCommit(ctx context.Context, hash string) (Commit, error) {
	msg, err := r.git(ctx, "log", "-1", "--format=%B", hash)
	if err != nil {
		return Commit{}, err
	}
	patch, err := r.git(ctx, "show", "--format=", "--patch", "--no-color", "--no-ext-diff", hash)
	if err != nil {
		return Commit{}, err
	}
	files, err := PatchFiles(patch)
	if err != nil {
		return Commit{}, fmt.Errorf("commit %s: %w", hash, err)
	}
	c := Commit{
		Hash:    hash,
		Message: strings.TrimRight(string(msg), "\n"),
		Files:   files,
	}
	r.logger().Debug("commit found", "hash", shortHash(hash), "summary", firstLine(c.Message), "files", len(files))
	return c, nil
}

// PatchFiles returns the paths touched by a unified git patch. Renames
// report both the old and the new path.
func PatchFiles(patch []byte) ([]string, error) {
	if len(bytes.TrimSpace(patch)) == 0 {
		return nil, nil
	}
	parsed, _, err := gitdiff.Parse(bytes.NewReader(patch))
	if err != nil {
		return nil, fmt.Errorf("parsing patch: %w", err)
	}
	var files []string
	for _, f := range parsed {
		if f.NewName != "" && !f.IsDelete {
			files = append(files, f.NewName)
		}
		if f.OldName != "" && (f.IsDelete || f.IsRename) {
			files = append(files, f.OldName)
		}
	}
	return files, nil
}

func nonEmptyLines(b []byte) []string {
	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
