package commands

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"agentstow/pkg/errors"
	"agentstow/pkg/logging"
	"agentstow/pkg/types"
)

// Status classifies every entry under the target root. An absent target
// root means "not installed" and is a success, not an error. Foreign
// entries are findings, never fatal.
func Status(opts Options) (*types.StatusReport, error) {
	logger := logging.GetLogger("commands.status")
	report := &types.StatusReport{TargetRoot: opts.TargetRoot}

	if _, err := opts.FS.Stat(opts.TargetRoot); err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", opts.TargetRoot).Msg("Target root absent, not installed")
			return report, nil
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access target root").
			WithDetail("path", opts.TargetRoot)
	}
	report.Installed = true

	entries, err := opts.FS.ReadDir(opts.TargetRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read target root").
			WithDetail("path", opts.TargetRoot)
	}

	for _, entry := range entries {
		report.Entries = append(report.Entries, classify(opts, entry))
	}
	return report, nil
}

func classify(opts Options, entry iofs.DirEntry) types.StatusEntry {
	name := entry.Name()
	full := filepath.Join(opts.TargetRoot, name)

	if entry.Type()&iofs.ModeSymlink != 0 {
		dest, err := opts.FS.Readlink(full)
		if err != nil {
			return types.StatusEntry{Name: name, Kind: types.EntryBroken}
		}
		resolved := dest
		if !filepath.IsAbs(resolved) {
			resolved = filepath.Join(opts.TargetRoot, dest)
		}
		if _, err := opts.FS.Stat(resolved); err != nil {
			return types.StatusEntry{Name: name, Kind: types.EntryBroken, Dest: dest}
		}
		// Only links resolving into the source root are ours; a link to
		// anywhere else is foreign, even though it resolves.
		if !strings.HasPrefix(resolved, opts.SourceRoot+string(filepath.Separator)) {
			return types.StatusEntry{Name: name, Kind: types.EntryForeign, Dest: dest}
		}
		return types.StatusEntry{Name: name, Kind: types.EntryLinked, Dest: dest}
	}

	// The extension is expected to be a real cloned directory, not a link.
	if name == opts.ExtensionName {
		return types.StatusEntry{Name: name, Kind: types.EntryExtension}
	}

	return types.StatusEntry{Name: name, Kind: types.EntryForeign}
}
