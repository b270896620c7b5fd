package extension_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"agentstow/pkg/errors"
	"agentstow/pkg/extension"
	"agentstow/pkg/filesystem"
	"agentstow/pkg/hygiene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVCS simulates clone/pull without touching the network.
type fakeVCS struct {
	failClone   bool
	leavePartal bool
	failPull    bool
	pulls       int
	branch      string
	commit      string
}

func (f *fakeVCS) Clone(url, dest string) error {
	if f.failClone {
		if f.leavePartal {
			// A failed network fetch can leave a half-written directory.
			_ = os.MkdirAll(filepath.Join(dest, ".git"), 0755)
		}
		return fmt.Errorf("fatal: unable to access %q", url)
	}
	if err := os.MkdirAll(filepath.Join(dest, ".git"), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dest, "SKILL.md"), []byte("# extras\n"), 0644)
}

func (f *fakeVCS) Pull(repoPath string) error {
	if f.failPull {
		return fmt.Errorf("fatal: not possible to fast-forward")
	}
	f.pulls++
	return nil
}

func (f *fakeVCS) CurrentBranch(repoPath string) (string, error) { return f.branch, nil }
func (f *fakeVCS) LatestCommit(repoPath string) (string, error)  { return f.commit, nil }

type fixture struct {
	mgr        *extension.Manager
	vcs        *fakeVCS
	ignoreFile string
	path       string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sourceRoot := t.TempDir()
	targetRoot := filepath.Join(sourceRoot, ".claude")
	fsys := filesystem.NewOS()

	fake := &fakeVCS{branch: "main", commit: "abc1234 initial skills"}
	ignoreFile := filepath.Join(sourceRoot, ".gitignore")
	checker := &hygiene.Checker{IgnoreFile: ignoreFile, Entry: ".claude/extras", FS: fsys}
	path := filepath.Join(targetRoot, "extras")

	return &fixture{
		mgr:        extension.New("extras", "https://example.com/extras.git", path, fsys, fake, checker),
		vcs:        fake,
		ignoreFile: ignoreFile,
		path:       path,
	}
}

func TestInstallAbsentToPresent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.mgr.Install())
	assert.True(t, f.mgr.Installed())

	// Hygiene repair ran automatically.
	data, err := os.ReadFile(f.ignoreFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), ".claude/extras")
}

func TestInstallTwiceIsRefused(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.Install())

	marker := filepath.Join(f.path, "SKILL.md")
	before, err := os.ReadFile(marker)
	require.NoError(t, err)

	err = f.mgr.Install()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyInstalled))

	// The existing clone is untouched.
	after, readErr := os.ReadFile(marker)
	require.NoError(t, readErr)
	assert.Equal(t, before, after)
}

func TestInstallFailureLeavesNoPartialClone(t *testing.T) {
	f := newFixture(t)
	f.vcs.failClone = true
	f.vcs.leavePartal = true

	err := f.mgr.Install()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFetch))

	_, statErr := os.Lstat(f.path)
	assert.True(t, os.IsNotExist(statErr), "partial clone must be cleaned up")
	assert.False(t, f.mgr.Installed())
}

func TestUpdateRequiresInstall(t *testing.T) {
	f := newFixture(t)

	err := f.mgr.Update()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotInstalled))
}

func TestUpdatePullsExistingClone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.Install())

	require.NoError(t, f.mgr.Update())
	assert.Equal(t, 1, f.vcs.pulls)
}

func TestUpdateFailureLeavesCloneUntouched(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.Install())
	f.vcs.failPull = true

	err := f.mgr.Update()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUpdate))
	assert.True(t, f.mgr.Installed(), "failed update must not delete the clone")
}

func TestRemovePresentToAbsent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.Install())

	removed, err := f.mgr.Remove()
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, f.mgr.Installed())
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	f := newFixture(t)

	removed, err := f.mgr.Remove()
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestStatusAbsent(t *testing.T) {
	f := newFixture(t)

	status, err := f.mgr.Status()
	require.NoError(t, err)
	assert.False(t, status.Installed)
	assert.Empty(t, status.Branch)
	assert.False(t, status.Ignored)
}

func TestStatusPresent(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mgr.Install())

	status, err := f.mgr.Status()
	require.NoError(t, err)
	assert.True(t, status.Installed)
	assert.Equal(t, "main", status.Branch)
	assert.Equal(t, "abc1234 initial skills", status.Commit)
	assert.True(t, status.Ignored)
}

func TestFullStateMachine(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.mgr.Install())
	assert.True(t, errors.IsErrorCode(f.mgr.Install(), errors.ErrAlreadyInstalled))

	removed, err := f.mgr.Remove()
	require.NoError(t, err)
	assert.True(t, removed)

	status, err := f.mgr.Status()
	require.NoError(t, err)
	assert.False(t, status.Installed)
}
