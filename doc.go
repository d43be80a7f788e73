// Package main implements the nextver CLI tool.
//
// The nextver tool calculates the next semantic version of a git repository. It finds
// the latest version tag (default prefix "v"), classifies every non-merge commit since
// that tag by its conventional commit type and prints the bump ("none", "patch",
// "minor", "major", "release", "alpha", "beta", "rc" or "1.0.0") and, on request, the
// next version tag. Nothing is written to the repository.
//
// Command Usage:
//
//	nextver [flags]
//	nextver calculate [flags]
//	nextver explain [flags]
//	nextver version
//
// Flags:
//
//	-f, --force:    Forces a transition: major, minor, patch, first, release, rc, beta or alpha.
//	-p, --prefix:   Prefix of version tags (defaults to "v").
//	-n, --number:   Prints the next version tag after the bump.
//	-b, --no-bump:  Does not print the bump.
//	-r, --require:  File that must be changed for a release at or above --enforce.
//	                This flag may be used multiple times.
//	-e, --enforce:  Level from which required files are enforced (defaults to "feature").
//	-c, --check:    Minimum change level for a release. Below it the bump is "none".
//	--first:        Promotes the next version to 1.0.0. With rc, beta or alpha it starts
//	                a 1.0.0 pre-release train instead.
//	--scope:        Only counts commits that touch this path. Root files always count.
//	--package:      Versions a Go workspace module. Its directory becomes the scope and
//	                tags take the form "<dir>/v1.2.3".
//	--set-env:      Exports the bump into this variable through $GITHUB_ENV, or prints
//	                an export line when $GITHUB_ENV is not set.
//	--format:       text, json or yaml.
//	--fail-below-threshold: Exits with code 14 when the level is below --check.
//	-v, -q:         More or less logging on stderr.
//
// Settings may also come from a .nextver.yaml file in the repository root and from
// NEXTVER_* environment variables (e.g. NEXTVER_PREFIX). Flags win over both.
//
// Examples:
//
//	# Print the bump since the last tag (e.g. "minor")
//	nextver
//
//	# Print the bump and the next tag (e.g. "minor" then "v1.3.0")
//	nextver --number
//
//	# Only the next tag
//	nextver --number --no-bump
//
//	# Start a release candidate for 1.0.0 from 0.9.4
//	nextver --force rc --first
//
//	# Refuse a feature release without a changelog entry
//	nextver --require CHANGELOG.md --enforce feature
//
//	# Version the tools module of a go.work workspace
//	nextver --package tools --number
//
//	# Show how each commit was classified
//	nextver explain
//
// For more detailed API documentation, please see the documentation in the "pkg" package
// or visit [PkgGoDev](https://pkg.go.dev/github.com/bcomnes/nextver).
package main
