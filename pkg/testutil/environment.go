// Package testutil provides test environments: isolated source and target
// roots on a real temp filesystem, plus package fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"agentstow/pkg/filesystem"
	"agentstow/pkg/types"
)

// Environment is an isolated source/target pair for one test.
type Environment struct {
	SourceRoot string
	TargetRoot string
	FS         types.FS

	t *testing.T
}

// NewEnvironment creates temp roots and points the AGENTSTOW_* variables at
// them so the CLI path resolution picks them up.
func NewEnvironment(t *testing.T) *Environment {
	t.Helper()

	env := &Environment{
		SourceRoot: t.TempDir(),
		TargetRoot: filepath.Join(t.TempDir(), "claude"),
		FS:         filesystem.NewOS(),
		t:          t,
	}

	t.Setenv("AGENTSTOW_ROOT", env.SourceRoot)
	t.Setenv("AGENTSTOW_TARGET", env.TargetRoot)

	return env
}

// SetupPackage creates a package directory with the given files.
func (e *Environment) SetupPackage(name string, files map[string]string) types.Package {
	e.t.Helper()

	dir := filepath.Join(e.SourceRoot, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("failed to create package %s: %v", name, err)
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			e.t.Fatalf("failed to create dirs for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			e.t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return types.Package{
		Name:       name,
		SourcePath: dir,
		TargetPath: filepath.Join(e.TargetRoot, name),
	}
}

// IsSymlinkTo asserts that path is a symlink resolving to dest.
func (e *Environment) IsSymlinkTo(path, dest string) bool {
	e.t.Helper()
	got, err := os.Readlink(path)
	return err == nil && got == dest
}
