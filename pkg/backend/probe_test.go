package backend_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"agentstow/pkg/backend"
	"agentstow/pkg/errors"
	"agentstow/pkg/filesystem"
	"agentstow/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStow puts a stow script with the given body on PATH.
func fakeStow(t *testing.T, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake executable setup is unix-only")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, backend.StowExecutable)
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body), 0755))
	t.Setenv("PATH", dir)
}

func TestDetectWithoutStow(t *testing.T) {
	// An empty PATH guarantees stow cannot be resolved.
	t.Setenv("PATH", t.TempDir())

	b := backend.Detect(backend.Options{FS: filesystem.NewOS()})
	assert.Equal(t, "manual", b.Name())
}

func TestDetectWithStowOnPath(t *testing.T) {
	fakeStow(t, "exit 0\n")

	b := backend.Detect(backend.Options{FS: filesystem.NewOS()})
	assert.Equal(t, "stow", b.Name())
}

func TestStowInstallBatchSucceeds(t *testing.T) {
	fakeStow(t, "exit 0\n")

	source := t.TempDir()
	target := filepath.Join(t.TempDir(), "claude")
	s := backend.NewStow(backend.Options{
		SourceRoot: source,
		TargetRoot: target,
		FS:         filesystem.NewOS(),
	})

	pkgs := []types.Package{
		{Name: "agents", SourcePath: filepath.Join(source, "agents"), TargetPath: filepath.Join(target, "agents")},
		{Name: "skills", SourcePath: filepath.Join(source, "skills"), TargetPath: filepath.Join(target, "skills")},
	}
	report, err := s.InstallAll(pkgs)
	require.NoError(t, err)

	assert.Equal(t, "stow", report.Backend)
	assert.Equal(t, 2, report.Succeeded())
	require.Len(t, report.Results, 2)
	assert.Equal(t, types.OutcomeLinked, report.Results[0].Outcome)
}

func TestStowInstallBatchFailsAsUnit(t *testing.T) {
	fakeStow(t, "echo 'WARNING! stowing agents would cause conflicts' >&2\nexit 1\n")

	source := t.TempDir()
	s := backend.NewStow(backend.Options{
		SourceRoot: source,
		TargetRoot: filepath.Join(t.TempDir(), "claude"),
		FS:         filesystem.NewOS(),
	})

	_, err := s.InstallAll([]types.Package{
		{Name: "agents", SourcePath: filepath.Join(source, "agents")},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInstall))
	assert.Contains(t, err.Error(), "would cause conflicts", "stow's own output is surfaced")
}

func TestStowEmptyBatchRunsNothing(t *testing.T) {
	// With no packages the stow backend must not invoke the binary at all,
	// so this passes even when stow is absent.
	s := backend.NewStow(backend.Options{
		SourceRoot: t.TempDir(),
		TargetRoot: t.TempDir(),
		FS:         filesystem.NewOS(),
	})

	report, err := s.InstallAll(nil)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Equal(t, "stow", report.Backend)
}
