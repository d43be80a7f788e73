package nextver

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// ErrNoModule is returned when no go.work or go.mod is found.
var ErrNoModule = errors.New("no go.work or go.mod found")

// WorkspaceModule is a Go module inside a workspace.
type WorkspaceModule struct {
	// Path is the module path from the module directive.
	Path string
	// Dir is the absolute module directory.
	Dir string
}

// LocateWorkspace walks up from startDir and returns the directory holding
// the nearest go.work, or failing that the nearest go.mod.
func LocateWorkspace(startDir string) (string, error) {
	var modDir string
	d, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, "go.work")); err == nil {
			return d, nil
		}
		if modDir == "" {
			if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
				modDir = d
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	if modDir != "" {
		return modDir, nil
	}
	return "", ErrNoModule
}

// LoadWorkspace lists the modules of the workspace rooted at root. Without a
// go.work the single go.mod in root is returned.
func LoadWorkspace(root string) ([]WorkspaceModule, error) {
	workPath := filepath.Join(root, "go.work")
	data, err := os.ReadFile(workPath)
	if errors.Is(err, os.ErrNotExist) {
		m, err := readModule(root)
		if err != nil {
			return nil, err
		}
		return []WorkspaceModule{m}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading go.work: %w", err)
	}

	wf, err := modfile.ParseWork(workPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing go.work: %w", err)
	}
	mods := make([]WorkspaceModule, 0, len(wf.Use))
	for _, use := range wf.Use {
		dir := use.Path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, filepath.FromSlash(dir))
		}
		m, err := readModule(dir)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

func readModule(dir string) (WorkspaceModule, error) {
	modPath := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return WorkspaceModule{}, fmt.Errorf("reading go.mod: %w", err)
	}
	f, err := modfile.ParseLax(modPath, data, nil)
	if err != nil {
		return WorkspaceModule{}, fmt.Errorf("parsing go.mod: %w", err)
	}
	if f.Module == nil {
		return WorkspaceModule{}, fmt.Errorf("%s: module directive not found", modPath)
	}
	if err := module.CheckPath(f.Module.Mod.Path); err != nil {
		return WorkspaceModule{}, fmt.Errorf("%s: %w", modPath, err)
	}
	return WorkspaceModule{Path: f.Module.Mod.Path, Dir: dir}, nil
}

// ResolvePackage finds the workspace module named name. A name matches the
// full module path, the module path without its major version suffix, the
// directory relative to root, or the last path element when that is unique.
func ResolvePackage(root, name string) (WorkspaceModule, error) {
	mods, err := LoadWorkspace(root)
	if err != nil {
		return WorkspaceModule{}, err
	}

	var byBase []WorkspaceModule
	for _, m := range mods {
		base, _, _ := module.SplitPathVersion(m.Path)
		if m.Path == name || base == name {
			return m, nil
		}
		if rel, err := filepath.Rel(root, m.Dir); err == nil && filepath.ToSlash(rel) == strings.Trim(name, "/") {
			return m, nil
		}
		if path.Base(base) == name {
			byBase = append(byBase, m)
		}
	}
	switch len(byBase) {
	case 1:
		return byBase[0], nil
	case 0:
		return WorkspaceModule{}, fmt.Errorf("package %q not found in workspace %s", name, root)
	default:
		return WorkspaceModule{}, fmt.Errorf("package %q is ambiguous in workspace %s", name, root)
	}
}

// ForModuleDir scopes the config to a module directory relative to the
// repository root. Tags for a nested module carry the directory as a
// prefix, e.g. "tools/v1.2.0".
func (c Config) ForModuleDir(rel string) Config {
	rel = strings.Trim(cleanRepoPath(rel), "/")
	if rel == "" {
		return c
	}
	c.ScopeFilter = rel
	c.Prefix = rel + "/" + c.Prefix
	return c
}

// CheckMajorSuffix reports an error when a module path does not carry the
// /vN suffix that next requires.
func CheckMajorSuffix(modPath string, next SemanticVersion) error {
	_, suffix, ok := module.SplitPathVersion(modPath)
	if !ok {
		return fmt.Errorf("invalid module path %q", modPath)
	}
	if strings.HasPrefix(suffix, ".") {
		// gopkg.in paths encode the major version differently.
		return nil
	}
	maj := semver.Major(next.canonical())
	want := ""
	if maj != "v0" && maj != "v1" {
		want = "/" + maj
	}
	if suffix != want {
		return fmt.Errorf("module %s needs major version suffix %q for %s", modPath, want, next)
	}
	return nil
}
