package backend

import (
	"os/exec"
	"strings"

	"agentstow/pkg/errors"
	"agentstow/pkg/logging"
	"agentstow/pkg/types"

	"github.com/rs/zerolog"
)

// Stow delegates whole batches to GNU stow. The batch succeeds or fails as
// a single unit; stow's own conflict detection applies. A failed batch may
// have left some links behind, stow decides that, so the error carries
// stow's full output.
type Stow struct {
	opts   Options
	logger zerolog.Logger
}

// NewStow creates the stow-delegating backend.
func NewStow(opts Options) *Stow {
	return &Stow{opts: opts, logger: logging.GetLogger("backend.stow")}
}

// Name identifies this backend in reports.
func (s *Stow) Name() string { return "stow" }

// InstallAll runs one stow invocation over the whole package set.
func (s *Stow) InstallAll(pkgs []types.Package) (*types.Report, error) {
	return s.run("install", errors.ErrInstall, nil, pkgs, types.OutcomeLinked)
}

// UninstallAll runs stow -D over the whole package set.
func (s *Stow) UninstallAll(pkgs []types.Package) (*types.Report, error) {
	return s.run("uninstall", errors.ErrUninstall, []string{"-D"}, pkgs, types.OutcomeUnlinked)
}

// RestowAll runs stow -R, stow's native refresh.
func (s *Stow) RestowAll(pkgs []types.Package) (*types.Report, error) {
	return s.run("restow", errors.ErrInstall, []string{"-R"}, pkgs, types.OutcomeRelinked)
}

func (s *Stow) run(command string, code errors.ErrorCode, mode []string, pkgs []types.Package, outcome types.Outcome) (*types.Report, error) {
	report := &types.Report{Command: command, Backend: s.Name(), DryRun: s.opts.DryRun}
	if len(pkgs) == 0 {
		return report, nil
	}

	if !s.opts.DryRun {
		if err := s.opts.FS.MkdirAll(s.opts.TargetRoot, 0755); err != nil {
			return nil, errors.Wrap(err, errors.ErrDirCreate, "failed to create target root").
				WithDetail("path", s.opts.TargetRoot)
		}
	}

	args := []string{"-d", s.opts.SourceRoot, "-t", s.opts.TargetRoot}
	if s.opts.DryRun {
		args = append(args, "-n")
	}
	args = append(args, mode...)
	for _, pkg := range pkgs {
		args = append(args, pkg.Name)
	}

	s.logger.Debug().Strs("args", args).Msg("Running stow")
	cmd := exec.Command(StowExecutable, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, errors.Wrapf(err, code, "stow batch failed: %s", strings.TrimSpace(string(output))).
			WithDetail("args", args)
	}

	for _, pkg := range pkgs {
		report.Add(pkg.Name, outcome, "via stow")
	}
	return report, nil
}
