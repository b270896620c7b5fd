// Package packages enumerates installable packages: every immediate
// subdirectory of the source root is one package, identified by its name.
// There is no manifest; the filesystem is the source of truth.
package packages

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agentstow/pkg/errors"
	"agentstow/pkg/logging"
	"agentstow/pkg/types"
)

// Discover lists the packages under sourceRoot, sorted by name. Files and
// hidden directories are ignored. A missing source root is a configuration
// error and aborts the calling operation.
func Discover(sourceRoot, targetRoot string, fsys types.FS) ([]types.Package, error) {
	logger := logging.GetLogger("packages.discovery")
	logger.Trace().Str("root", sourceRoot).Msg("Discovering packages")

	info, err := fsys.Stat(sourceRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrConfigRoot, "source root does not exist").
				WithDetail("path", sourceRoot)
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access source root").
			WithDetail("path", sourceRoot)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrConfigRoot, "source root is not a directory").
			WithDetail("path", sourceRoot)
	}

	entries, err := fsys.ReadDir(sourceRoot)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read source root").
			WithDetail("path", sourceRoot)
	}

	var pkgs []types.Package
	for _, entry := range entries {
		name := entry.Name()

		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(name, ".") {
			logger.Trace().Str("name", name).Msg("Skipping hidden directory")
			continue
		}

		pkgs = append(pkgs, types.Package{
			Name:       name,
			SourcePath: filepath.Join(sourceRoot, name),
			TargetPath: filepath.Join(targetRoot, name),
		})
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })

	logger.Debug().Int("count", len(pkgs)).Msg("Found packages")
	return pkgs, nil
}

// Names returns just the identities, in the same (sorted) order.
func Names(pkgs []types.Package) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	return names
}
