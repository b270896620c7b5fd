// Package backend implements the two linking strategies: delegating whole
// batches to GNU stow when it is on PATH, or managing symlinks directly
// otherwise. The strategy is picked once per invocation and injected into
// commands; nothing re-probes mid-operation.
package backend

import (
	"os/exec"

	"agentstow/pkg/logging"
	"agentstow/pkg/types"
)

// StowExecutable is the farm-management utility probed for at startup.
const StowExecutable = "stow"

// Backend links and unlinks the whole package batch. Implementations differ
// in failure granularity: stow succeeds or fails as a unit, the manual
// backend isolates conflicts per package.
type Backend interface {
	Name() string
	InstallAll(pkgs []types.Package) (*types.Report, error)
	UninstallAll(pkgs []types.Package) (*types.Report, error)
	RestowAll(pkgs []types.Package) (*types.Report, error)
}

// Options carries the shared state both backends need.
type Options struct {
	SourceRoot string
	TargetRoot string
	FS         types.FS
	DryRun     bool
}

// Detect picks the backend for this run: stow when resolvable on PATH,
// the manual symlink backend otherwise. Absence of stow is an expected
// state, not an error.
func Detect(opts Options) Backend {
	logger := logging.GetLogger("backend.probe")
	if path, err := exec.LookPath(StowExecutable); err == nil {
		logger.Debug().Str("path", path).Msg("stow found, using stow backend")
		return NewStow(opts)
	}
	logger.Debug().Msg("stow not found, using manual symlink backend")
	return NewManual(opts)
}
