package backend_test

import (
	"os"
	"path/filepath"
	"testing"

	"agentstow/pkg/backend"
	"agentstow/pkg/filesystem"
	"agentstow/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	source string
	target string
	fs     types.FS
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return &env{
		source: t.TempDir(),
		target: filepath.Join(t.TempDir(), "claude"),
		fs:     filesystem.NewOS(),
	}
}

func (e *env) addPackage(t *testing.T, name string) types.Package {
	t.Helper()
	src := filepath.Join(e.source, name)
	require.NoError(t, os.MkdirAll(src, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "README.md"), []byte(name), 0644))
	return types.Package{Name: name, SourcePath: src, TargetPath: filepath.Join(e.target, name)}
}

func (e *env) backend(dryRun bool) *backend.Manual {
	return backend.NewManual(backend.Options{
		SourceRoot: e.source,
		TargetRoot: e.target,
		FS:         e.fs,
		DryRun:     dryRun,
	})
}

func TestManualInstallLinksAllPackages(t *testing.T) {
	e := newEnv(t)
	pkgs := []types.Package{e.addPackage(t, "agents"), e.addPackage(t, "skills")}

	report, err := e.backend(false).InstallAll(pkgs)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 0, report.Conflicts())
	for _, pkg := range pkgs {
		dest, err := os.Readlink(pkg.TargetPath)
		require.NoError(t, err)
		assert.Equal(t, pkg.SourcePath, dest)
	}
}

func TestManualInstallIdempotent(t *testing.T) {
	e := newEnv(t)
	pkgs := []types.Package{e.addPackage(t, "agents")}
	b := e.backend(false)

	first, err := b.InstallAll(pkgs)
	require.NoError(t, err)
	second, err := b.InstallAll(pkgs)
	require.NoError(t, err)

	// Same end state both times, and the second run reports success too.
	assert.Equal(t, 1, first.Succeeded())
	assert.Equal(t, 1, second.Succeeded())
	assert.Equal(t, 0, second.Conflicts())

	dest, err := os.Readlink(pkgs[0].TargetPath)
	require.NoError(t, err)
	assert.Equal(t, pkgs[0].SourcePath, dest)
}

func TestManualInstallConflictIsolation(t *testing.T) {
	e := newEnv(t)
	a := e.addPackage(t, "a")
	b := e.addPackage(t, "b")
	c := e.addPackage(t, "c")

	// b's target pre-exists as a real directory.
	require.NoError(t, os.MkdirAll(b.TargetPath, 0755))

	report, err := e.backend(false).InstallAll([]types.Package{a, b, c})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Conflicts())

	for _, pkg := range []types.Package{a, c} {
		dest, err := os.Readlink(pkg.TargetPath)
		require.NoError(t, err)
		assert.Equal(t, pkg.SourcePath, dest)
	}

	// The foreign directory is untouched.
	info, err := os.Lstat(b.TargetPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestManualInstallForceRelink(t *testing.T) {
	e := newEnv(t)
	pkg := e.addPackage(t, "agents")

	// A stale symlink pointing somewhere else gets replaced.
	require.NoError(t, os.MkdirAll(e.target, 0755))
	stale := filepath.Join(t.TempDir(), "elsewhere")
	require.NoError(t, os.MkdirAll(stale, 0755))
	require.NoError(t, os.Symlink(stale, pkg.TargetPath))

	report, err := e.backend(false).InstallAll([]types.Package{pkg})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeRelinked, report.Results[0].Outcome)

	dest, err := os.Readlink(pkg.TargetPath)
	require.NoError(t, err)
	assert.Equal(t, pkg.SourcePath, dest)
}

func TestManualUninstallRoundTrip(t *testing.T) {
	e := newEnv(t)
	pkgs := []types.Package{e.addPackage(t, "agents"), e.addPackage(t, "skills")}
	b := e.backend(false)

	_, err := b.InstallAll(pkgs)
	require.NoError(t, err)

	report, err := b.UninstallAll(pkgs)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Conflicts())

	for _, pkg := range pkgs {
		_, err := os.Lstat(pkg.TargetPath)
		assert.True(t, os.IsNotExist(err), "target should be gone: %s", pkg.TargetPath)
	}

	// Reinstall restores the links identically.
	_, err = b.InstallAll(pkgs)
	require.NoError(t, err)
	for _, pkg := range pkgs {
		dest, err := os.Readlink(pkg.TargetPath)
		require.NoError(t, err)
		assert.Equal(t, pkg.SourcePath, dest)
	}
}

func TestManualUninstallMissingIsSatisfied(t *testing.T) {
	e := newEnv(t)
	pkg := e.addPackage(t, "agents")

	report, err := e.backend(false).UninstallAll([]types.Package{pkg})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeAbsent, report.Results[0].Outcome)
	assert.Equal(t, 0, report.Conflicts())
}

func TestManualUninstallNeverDeletesForeign(t *testing.T) {
	e := newEnv(t)
	pkg := e.addPackage(t, "agents")
	require.NoError(t, os.MkdirAll(pkg.TargetPath, 0755))
	marker := filepath.Join(pkg.TargetPath, "precious.txt")
	require.NoError(t, os.WriteFile(marker, []byte("keep"), 0644))

	report, err := e.backend(false).UninstallAll([]types.Package{pkg})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Conflicts())
	_, err = os.Stat(marker)
	assert.NoError(t, err, "foreign content must survive uninstall")
}

func TestManualRestow(t *testing.T) {
	e := newEnv(t)
	pkg := e.addPackage(t, "agents")
	b := e.backend(false)

	_, err := b.InstallAll([]types.Package{pkg})
	require.NoError(t, err)

	report, err := b.RestowAll([]types.Package{pkg})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeRelinked, report.Results[0].Outcome)

	dest, err := os.Readlink(pkg.TargetPath)
	require.NoError(t, err)
	assert.Equal(t, pkg.SourcePath, dest)
}

func TestManualDryRunMutatesNothing(t *testing.T) {
	e := newEnv(t)
	pkg := e.addPackage(t, "agents")

	report, err := e.backend(true).InstallAll([]types.Package{pkg})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeLinked, report.Results[0].Outcome)

	_, err = os.Lstat(pkg.TargetPath)
	assert.True(t, os.IsNotExist(err), "dry run must not create links")
	_, err = os.Stat(e.target)
	assert.True(t, os.IsNotExist(err), "dry run must not create the target root")
}

func TestManualReportSummary(t *testing.T) {
	e := newEnv(t)
	a := e.addPackage(t, "a")
	b := e.addPackage(t, "b")
	require.NoError(t, os.MkdirAll(b.TargetPath, 0755))

	report, err := e.backend(false).InstallAll([]types.Package{a, b})
	require.NoError(t, err)
	assert.Equal(t, "install: 1 succeeded, 1 conflicts (2 total)", report.Summary())
}
