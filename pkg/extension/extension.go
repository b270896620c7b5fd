// Package extension manages the one externally-sourced package: a git
// clone living under the target root instead of a symlink into the source
// root. Presence is derived from the filesystem; there is no manifest.
package extension

import (
	"os"
	"path/filepath"

	"agentstow/pkg/errors"
	"agentstow/pkg/hygiene"
	"agentstow/pkg/logging"
	"agentstow/pkg/types"
	"agentstow/pkg/vcs"

	"github.com/rs/zerolog"
)

// Manager drives the extension's lifecycle: install (clone), update
// (fast-forward pull), remove (delete), and status (branch/commit).
type Manager struct {
	// Name is the extension's directory name under the target root.
	Name string

	// URL is the git remote the extension is cloned from.
	URL string

	// Path is the extension's fixed location: target root + name.
	Path string

	FS      types.FS
	VCS     vcs.Client
	Hygiene *hygiene.Checker

	logger zerolog.Logger
}

// New assembles a Manager.
func New(name, url, path string, fsys types.FS, client vcs.Client, checker *hygiene.Checker) *Manager {
	return &Manager{
		Name:    name,
		URL:     url,
		Path:    path,
		FS:      fsys,
		VCS:     client,
		Hygiene: checker,
		logger:  logging.GetLogger("extension"),
	}
}

// Installed derives presence from the target path.
func (m *Manager) Installed() bool {
	_, err := m.FS.Lstat(m.Path)
	return err == nil
}

// Install clones the remote into the fixed target path. Installing over an
// existing extension is refused; a failed clone leaves no partial directory
// behind. On success the ignore-list is repaired automatically.
func (m *Manager) Install() error {
	if m.Installed() {
		return errors.Newf(errors.ErrAlreadyInstalled,
			"extension %q is already installed at %s; use update or remove", m.Name, m.Path)
	}

	if err := m.FS.MkdirAll(filepath.Dir(m.Path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create target root").
			WithDetail("path", filepath.Dir(m.Path))
	}

	m.logger.Info().Str("url", m.URL).Str("path", m.Path).Msg("Installing extension")
	if err := m.VCS.Clone(m.URL, m.Path); err != nil {
		// No partial directory may survive a failed fetch.
		if rmErr := m.FS.RemoveAll(m.Path); rmErr != nil && !os.IsNotExist(rmErr) {
			m.logger.Warn().Err(rmErr).Str("path", m.Path).Msg("Failed to clean up partial clone")
		}
		return errors.Wrapf(err, errors.ErrFetch, "failed to clone %s", m.URL)
	}

	// Keep the clone out of the enclosing repository's tracking. Advisory:
	// a hygiene failure does not undo a successful install.
	if _, err := m.Hygiene.Repair(); err != nil {
		m.logger.Warn().Err(err).Msg("Extension installed but ignore-list repair failed")
	}

	return nil
}

// Update fast-forwards the existing clone. The clone is left untouched on
// failure; there is no destructive rollback.
func (m *Manager) Update() error {
	if !m.Installed() {
		return errors.Newf(errors.ErrNotInstalled,
			"extension %q is not installed; use install first", m.Name)
	}

	m.logger.Info().Str("path", m.Path).Msg("Updating extension")
	if err := m.VCS.Pull(m.Path); err != nil {
		return errors.Wrapf(err, errors.ErrUpdate, "failed to update extension %q", m.Name)
	}
	return nil
}

// Remove deletes the clone. Removing an absent extension is a reported
// no-op: the returned bool says whether anything was deleted.
func (m *Manager) Remove() (bool, error) {
	if !m.Installed() {
		m.logger.Info().Str("name", m.Name).Msg("Extension not installed, nothing to remove")
		return false, nil
	}

	m.logger.Info().Str("path", m.Path).Msg("Removing extension")
	if err := m.FS.RemoveAll(m.Path); err != nil {
		return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to remove extension %q", m.Name)
	}
	return true, nil
}

// Status reports presence, branch, latest commit, and ignore-list state.
// A read path: no state transition, and an absent extension is simply
// reported as not installed.
func (m *Manager) Status() (*types.ExtensionStatus, error) {
	status := &types.ExtensionStatus{Name: m.Name, Path: m.Path}

	ignored, err := m.Hygiene.Check()
	if err != nil {
		// Advisory only.
		m.logger.Warn().Err(err).Msg("Ignore-list check failed")
	}
	status.Ignored = ignored

	if !m.Installed() {
		return status, nil
	}
	status.Installed = true

	branch, err := m.VCS.CurrentBranch(m.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read branch of %q", m.Name)
	}
	status.Branch = branch

	commit, err := m.VCS.LatestCommit(m.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read latest commit of %q", m.Name)
	}
	status.Commit = commit

	return status, nil
}
