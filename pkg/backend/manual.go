package backend

import (
	"fmt"
	iofs "io/fs"
	"os"

	"agentstow/pkg/errors"
	"agentstow/pkg/logging"
	"agentstow/pkg/types"

	"github.com/rs/zerolog"
)

// Manual creates and removes symlinks one package at a time. A conflict on
// one package never aborts the batch; the remaining packages are still
// processed. Every step is idempotent, so an interrupted run can simply be
// re-run.
type Manual struct {
	opts   Options
	logger zerolog.Logger
}

// NewManual creates the manual symlink backend.
func NewManual(opts Options) *Manual {
	return &Manual{opts: opts, logger: logging.GetLogger("backend.manual")}
}

// Name identifies this backend in reports.
func (m *Manual) Name() string { return "manual" }

// InstallAll links each package into the target root. Existing symlinks are
// force-relinked; foreign entries are recorded as conflicts and skipped.
func (m *Manual) InstallAll(pkgs []types.Package) (*types.Report, error) {
	report := &types.Report{Command: "install", Backend: m.Name(), DryRun: m.opts.DryRun}

	if err := m.ensureTargetRoot(); err != nil {
		return nil, err
	}

	for _, pkg := range pkgs {
		m.installOne(pkg, report)
	}
	return report, nil
}

// UninstallAll removes each package's symlink. Missing links are already
// satisfied; foreign entries are never deleted.
func (m *Manual) UninstallAll(pkgs []types.Package) (*types.Report, error) {
	report := &types.Report{Command: "uninstall", Backend: m.Name(), DryRun: m.opts.DryRun}

	for _, pkg := range pkgs {
		m.uninstallOne(pkg, report)
	}
	return report, nil
}

// RestowAll unlinks then relinks each package in one pass.
func (m *Manual) RestowAll(pkgs []types.Package) (*types.Report, error) {
	report := &types.Report{Command: "restow", Backend: m.Name(), DryRun: m.opts.DryRun}

	if err := m.ensureTargetRoot(); err != nil {
		return nil, err
	}

	for _, pkg := range pkgs {
		m.installOne(pkg, report)
	}
	return report, nil
}

func (m *Manual) installOne(pkg types.Package, report *types.Report) {
	info, err := m.opts.FS.Lstat(pkg.TargetPath)
	switch {
	case err != nil && os.IsNotExist(err):
		if m.opts.DryRun {
			report.Add(pkg.Name, types.OutcomeLinked, "would link to "+pkg.SourcePath)
			return
		}
		if err := m.opts.FS.Symlink(pkg.SourcePath, pkg.TargetPath); err != nil {
			m.logger.Error().Err(err).Str("package", pkg.Name).Msg("Failed to create symlink")
			report.Add(pkg.Name, types.OutcomeConflict, err.Error())
			return
		}
		m.logger.Info().Str("package", pkg.Name).Str("target", pkg.TargetPath).Msg("Linked")
		report.Add(pkg.Name, types.OutcomeLinked, pkg.TargetPath+" -> "+pkg.SourcePath)

	case err != nil:
		report.Add(pkg.Name, types.OutcomeConflict, fmt.Sprintf("cannot inspect target: %v", err))

	case info.Mode()&iofs.ModeSymlink != 0:
		// Force-relink: the target path belongs to us, so an existing
		// symlink is replaced unconditionally.
		if m.opts.DryRun {
			report.Add(pkg.Name, types.OutcomeRelinked, "would relink to "+pkg.SourcePath)
			return
		}
		if err := m.opts.FS.Remove(pkg.TargetPath); err != nil {
			report.Add(pkg.Name, types.OutcomeConflict, err.Error())
			return
		}
		if err := m.opts.FS.Symlink(pkg.SourcePath, pkg.TargetPath); err != nil {
			report.Add(pkg.Name, types.OutcomeConflict, err.Error())
			return
		}
		m.logger.Info().Str("package", pkg.Name).Msg("Relinked")
		report.Add(pkg.Name, types.OutcomeRelinked, pkg.TargetPath+" -> "+pkg.SourcePath)

	default:
		m.logger.Warn().Str("package", pkg.Name).Str("target", pkg.TargetPath).
			Msg("Target exists and is not a symlink, skipping")
		report.Add(pkg.Name, types.OutcomeConflict, pkg.TargetPath+" exists and is not a symlink")
	}
}

func (m *Manual) uninstallOne(pkg types.Package, report *types.Report) {
	info, err := m.opts.FS.Lstat(pkg.TargetPath)
	switch {
	case err != nil && os.IsNotExist(err):
		report.Add(pkg.Name, types.OutcomeAbsent, "not linked")

	case err != nil:
		report.Add(pkg.Name, types.OutcomeConflict, fmt.Sprintf("cannot inspect target: %v", err))

	case info.Mode()&iofs.ModeSymlink != 0:
		if m.opts.DryRun {
			report.Add(pkg.Name, types.OutcomeUnlinked, "would remove "+pkg.TargetPath)
			return
		}
		if err := m.opts.FS.Remove(pkg.TargetPath); err != nil {
			report.Add(pkg.Name, types.OutcomeConflict, err.Error())
			return
		}
		m.logger.Info().Str("package", pkg.Name).Msg("Unlinked")
		report.Add(pkg.Name, types.OutcomeUnlinked, "removed "+pkg.TargetPath)

	default:
		// Never delete something we did not create.
		report.Add(pkg.Name, types.OutcomeConflict, pkg.TargetPath+" is not a symlink, left in place")
	}
}

func (m *Manual) ensureTargetRoot() error {
	if m.opts.DryRun {
		return nil
	}
	if err := m.opts.FS.MkdirAll(m.opts.TargetRoot, 0755); err != nil {
		return errors.Wrap(err, errors.ErrDirCreate, "failed to create target root").
			WithDetail("path", m.opts.TargetRoot)
	}
	return nil
}
