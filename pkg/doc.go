// Package nextver calculates the next semantic version of a repository from
// the conventional commits made since its latest version tag.
//
// It provides functionalities for:
//   - Classifying commit messages into change levels (other, fix, feature, breaking).
//   - Parsing and ordering version tags such as "v1.2.3" or "v1.3.0-rc.2".
//   - Bumping a version by the aggregate change level, following the 0.y.z rules
//     while the major version is 0 and advancing alpha, beta and rc trains.
//   - Forcing explicit transitions (major, minor, patch, first, release, rc, beta, alpha).
//   - Blocking a release when required files were not changed, and suppressing it
//     when the change level stays below a threshold.
//   - Reading tags and commits from git, and resolving Go workspace modules so that
//     nested modules get their own "dir/vX.Y.Z" tags.
//
// The core is pure: Calculate takes a Config, the current VersionTag and the
// commits, and returns a Result. Calculator wires it to a Repository such as
// GitRepository.
//
// Usage Example:
//
//	repo, err := nextver.OpenGitRepository(ctx, ".", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := nextver.NewCalculator(nextver.DefaultConfig(), repo, nil).Calculate(ctx)
//	if err != nil {
//	    os.Exit(nextver.ExitCode(err))
//	}
//	fmt.Println(res.Bump, res.Next)
//
// For additional details and API documentation, see https://pkg.go.dev/github.com/bcomnes/nextver.
package nextver
