package commands

import (
	"agentstow/pkg/logging"
	"agentstow/pkg/packages"
	"agentstow/pkg/types"
)

// Install links every package under the source root into the target root
// using the selected backend.
func Install(opts Options) (*types.Report, error) {
	logger := logging.GetLogger("commands.install")

	pkgs, err := packages.Discover(opts.SourceRoot, opts.TargetRoot, opts.FS)
	if err != nil {
		return nil, err
	}

	report, err := opts.Backend.InstallAll(pkgs)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("backend", report.Backend).
		Int("succeeded", report.Succeeded()).
		Int("conflicts", report.Conflicts()).
		Msg("Install finished")
	return report, nil
}

// Uninstall removes every package's symlink from the target root.
func Uninstall(opts Options) (*types.Report, error) {
	logger := logging.GetLogger("commands.uninstall")

	pkgs, err := packages.Discover(opts.SourceRoot, opts.TargetRoot, opts.FS)
	if err != nil {
		return nil, err
	}

	report, err := opts.Backend.UninstallAll(pkgs)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("backend", report.Backend).
		Int("succeeded", report.Succeeded()).
		Int("conflicts", report.Conflicts()).
		Msg("Uninstall finished")
	return report, nil
}

// Restow refreshes every package's symlink (uninstall + install, or the
// backend's native refresh).
func Restow(opts Options) (*types.Report, error) {
	logger := logging.GetLogger("commands.restow")

	pkgs, err := packages.Discover(opts.SourceRoot, opts.TargetRoot, opts.FS)
	if err != nil {
		return nil, err
	}

	report, err := opts.Backend.RestowAll(pkgs)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("backend", report.Backend).
		Int("succeeded", report.Succeeded()).
		Int("conflicts", report.Conflicts()).
		Msg("Restow finished")
	return report, nil
}
