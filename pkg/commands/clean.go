package commands

import (
	iofs "io/fs"
	"os"
	"path/filepath"

	"agentstow/pkg/errors"
	"agentstow/pkg/logging"
	"agentstow/pkg/types"
)

// Clean removes dangling symlinks under the target root: links whose
// destination no longer exists. Valid links and foreign entries are left
// untouched.
func Clean(opts Options) (*types.Report, error) {
	logger := logging.GetLogger("commands.clean")
	report := &types.Report{Command: "clean", Backend: "manual", DryRun: opts.DryRun}

	entries, err := opts.FS.ReadDir(opts.TargetRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read target root").
			WithDetail("path", opts.TargetRoot)
	}

	for _, entry := range entries {
		if entry.Type()&iofs.ModeSymlink == 0 {
			continue
		}

		name := entry.Name()
		full := filepath.Join(opts.TargetRoot, name)
		dest, err := opts.FS.Readlink(full)
		if err != nil {
			continue
		}
		resolved := dest
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(opts.TargetRoot, dest)
		}
		if _, err := opts.FS.Stat(resolved); err == nil {
			continue
		}

		if opts.DryRun {
			report.Add(name, types.OutcomeCleaned, "would remove dangling link to "+dest)
			continue
		}
		if err := opts.FS.Remove(full); err != nil {
			report.Add(name, types.OutcomeConflict, err.Error())
			continue
		}
		logger.Info().Str("entry", name).Str("dest", dest).Msg("Removed dangling symlink")
		report.Add(name, types.OutcomeCleaned, "removed dangling link to "+dest)
	}

	return report, nil
}
