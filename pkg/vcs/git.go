// Package vcs wraps the git operations the extension lifecycle needs:
// clone, fast-forward pull, and branch/commit introspection. Git is invoked
// as a subprocess; this package depends only on its exit status and output.
package vcs

import (
	"fmt"
	"os/exec"
	"strings"

	"agentstow/pkg/logging"
)

// Client is the capability surface the extension manager consumes.
type Client interface {
	Clone(url, dest string) error
	Pull(repoPath string) error
	CurrentBranch(repoPath string) (string, error)
	LatestCommit(repoPath string) (string, error)
}

// Git implements Client over the git binary.
type Git struct{}

// NewGit returns a git-backed Client.
func NewGit() *Git { return &Git{} }

// Clone clones url into dest. The caller is responsible for cleaning up
// dest on failure.
func (g *Git) Clone(url, dest string) error {
	logger := logging.GetLogger("vcs.git")
	logger.Debug().Str("url", url).Str("dest", dest).Msg("Cloning")

	cmd := exec.Command("git", "clone", url, dest)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git clone failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// Pull fast-forwards the existing clone. Non-fast-forward histories and
// network failures return an error and leave the clone untouched.
func (g *Git) Pull(repoPath string) error {
	logger := logging.GetLogger("vcs.git")
	logger.Debug().Str("repo", repoPath).Msg("Pulling")

	cmd := exec.Command("git", "pull", "--ff-only")
	cmd.Dir = repoPath
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git pull --ff-only failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// CurrentBranch returns the name of the checked-out branch.
func (g *Git) CurrentBranch(repoPath string) (string, error) {
	cmd := exec.Command("git", "symbolic-ref", "--short", "HEAD")
	cmd.Dir = repoPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git current-branch failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// LatestCommit returns the abbreviated hash and subject of HEAD.
func (g *Git) LatestCommit(repoPath string) (string, error) {
	cmd := exec.Command("git", "log", "-1", "--format=%h %s")
	cmd.Dir = repoPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git log failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return strings.TrimSpace(string(output)), nil
}
