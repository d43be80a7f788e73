package nextver

import (
	"path"
	"slices"
	"strings"
)

// EnforceRequiredFiles fails with *MissingRequiredFilesError when level has
// reached enforceLevel and any of required is absent from changed. Below
// enforceLevel nothing is checked.
//
// Paths are slash separated and relative to the repository root. A required
// entry without a directory part is also satisfied by a changed file with
// the same base name anywhere in the tree.
func EnforceRequiredFiles(level, enforceLevel Level, required, changed []string) error {
	if len(required) == 0 || level < enforceLevel {
		return nil
	}
	missing := MissingFiles(required, changed)
	if len(missing) > 0 {
		return &MissingRequiredFilesError{Files: missing}
	}
	return nil
}

// MissingFiles returns required minus changed, sorted and de-duplicated.
func MissingFiles(required, changed []string) []string {
	paths := make(map[string]struct{}, len(changed))
	bases := make(map[string]struct{}, len(changed))
	for _, f := range changed {
		p := cleanRepoPath(f)
		paths[p] = struct{}{}
		bases[path.Base(p)] = struct{}{}
	}

	var missing []string
	for _, r := range required {
		p := cleanRepoPath(r)
		if _, ok := paths[p]; ok {
			continue
		}
		if !strings.Contains(p, "/") {
			if _, ok := bases[p]; ok {
				continue
			}
		}
		missing = append(missing, p)
	}
	slices.Sort(missing)
	return slices.Compact(missing)
}

func cleanRepoPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// ChangedFiles returns the union of files touched by commits, sorted.
func ChangedFiles(commits []Commit) []string {
	var files []string
	for _, c := range commits {
		for _, f := range c.Files {
			files = append(files, cleanRepoPath(f))
		}
	}
	slices.Sort(files)
	return slices.Compact(files)
}
