// Package paths resolves the two roots every agentstow operation shares:
// the source root (whose immediate subdirectories are packages) and the
// target root (which receives one symlink per package). Resolution order is
// explicit flag, environment variable, config file, then fallback.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"agentstow/pkg/config"
	"agentstow/pkg/errors"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvSourceRoot overrides the source root.
	EnvSourceRoot = "AGENTSTOW_ROOT"

	// EnvTargetRoot overrides the target root.
	EnvTargetRoot = "AGENTSTOW_TARGET"
)

// IgnoreFileName is the VCS ignore-list file at the source root.
const IgnoreFileName = ".gitignore"

// Paths provides the resolved locations for one invocation.
type Paths struct {
	sourceRoot   string
	targetRoot   string
	usedFallback bool
}

// New resolves the roots. Explicit arguments win over environment
// variables, which win over config values. An empty source resolution
// falls back to the current directory (recorded via UsedFallback).
func New(sourceFlag, targetFlag string, cfg *config.Config) (*Paths, error) {
	p := &Paths{}

	source := firstNonEmpty(sourceFlag, os.Getenv(EnvSourceRoot), cfg.Paths.Source)
	if source == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigRoot, "cannot determine working directory")
		}
		source = cwd
		p.usedFallback = true
	}

	target := firstNonEmpty(targetFlag, os.Getenv(EnvTargetRoot), cfg.Paths.Target)
	if target == "" {
		return nil, errors.New(errors.ErrConfigRoot, "no target root configured")
	}

	var err error
	p.sourceRoot, err = filepath.Abs(ExpandHome(source))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigRoot, "failed to resolve source root")
	}
	p.targetRoot, err = filepath.Abs(ExpandHome(target))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigRoot, "failed to resolve target root")
	}

	return p, nil
}

// SourceRoot returns the directory whose subdirectories are packages.
func (p *Paths) SourceRoot() string { return p.sourceRoot }

// TargetRoot returns the directory receiving the symlinks.
func (p *Paths) TargetRoot() string { return p.targetRoot }

// UsedFallback reports whether the source root fell back to the cwd.
func (p *Paths) UsedFallback() bool { return p.usedFallback }

// PackagePath returns the source directory for a package name.
func (p *Paths) PackagePath(name string) string {
	return filepath.Join(p.sourceRoot, name)
}

// TargetPath returns the symlink location for a package name.
func (p *Paths) TargetPath(name string) string {
	return filepath.Join(p.targetRoot, name)
}

// ExtensionPath returns where the extension clone lives.
func (p *Paths) ExtensionPath(name string) string {
	return filepath.Join(p.targetRoot, name)
}

// IgnoreFile returns the ignore-list path at the source root.
func (p *Paths) IgnoreFile() string {
	return filepath.Join(p.sourceRoot, IgnoreFileName)
}

// IgnoreEntry returns the form the extension path takes inside the
// ignore-list: relative to the source root when the target root sits inside
// it, absolute otherwise.
func (p *Paths) IgnoreEntry(extensionName string) string {
	extPath := p.ExtensionPath(extensionName)
	rel, err := filepath.Rel(p.sourceRoot, extPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return extPath
	}
	return rel
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
