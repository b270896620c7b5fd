// Package types holds the shared data model for agentstow: the filesystem
// abstraction, packages, per-package outcomes, and the report structures
// commands return for rendering.
package types

import (
	"fmt"
	"io/fs"
)

// FS abstracts filesystem operations so commands can run against the real
// OS filesystem or an in-memory one in tests.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Remove(name string) error
	RemoveAll(path string) error
}

// Package is one installable unit: a directory under the source root,
// projected into the target root as a single symlink.
type Package struct {
	// Name is the package identity, the directory name under the source root.
	Name string `json:"name" yaml:"name"`

	// SourcePath is the absolute path of the package directory.
	SourcePath string `json:"source" yaml:"source"`

	// TargetPath is where the symlink for this package lives.
	TargetPath string `json:"target" yaml:"target"`
}

// Outcome classifies what happened to a single package during an operation.
type Outcome string

const (
	// OutcomeLinked means a new symlink was created.
	OutcomeLinked Outcome = "linked"

	// OutcomeRelinked means an existing symlink was replaced.
	OutcomeRelinked Outcome = "relinked"

	// OutcomeUnlinked means an existing symlink was removed.
	OutcomeUnlinked Outcome = "unlinked"

	// OutcomeAbsent means there was nothing to do (already satisfied).
	OutcomeAbsent Outcome = "absent"

	// OutcomeConflict means a non-symlink occupies the target path.
	// The package was skipped; the batch continues.
	OutcomeConflict Outcome = "conflict"

	// OutcomeCleaned means a dangling symlink was removed by clean.
	OutcomeCleaned Outcome = "cleaned"
)

// PackageResult records the outcome for one package in a batch operation.
type PackageResult struct {
	Package string  `json:"package" yaml:"package"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Detail  string  `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Report is the result of one batch operation (install, uninstall, restow,
// clean). Commands always return a report; silent success is not a thing.
type Report struct {
	Command string          `json:"command" yaml:"command"`
	Backend string          `json:"backend" yaml:"backend"`
	DryRun  bool            `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
	Results []PackageResult `json:"results" yaml:"results"`
}

// Add appends a result to the report.
func (r *Report) Add(pkg string, outcome Outcome, detail string) {
	r.Results = append(r.Results, PackageResult{Package: pkg, Outcome: outcome, Detail: detail})
}

// Succeeded counts packages whose outcome was a successful mutation
// or an already-satisfied no-op.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome != OutcomeConflict {
			n++
		}
	}
	return n
}

// Conflicts counts packages skipped because a foreign entry occupies
// their target path.
func (r *Report) Conflicts() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomeConflict {
			n++
		}
	}
	return n
}

// Summary renders the closing one-liner every operation ends with.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s: %d succeeded, %d conflicts (%d total)",
		r.Command, r.Succeeded(), r.Conflicts(), len(r.Results))
}

// EntryKind classifies one entry found under the target root.
type EntryKind string

const (
	// EntryLinked is a symlink resolving to a package under the source root.
	EntryLinked EntryKind = "linked"

	// EntryBroken is a symlink whose destination no longer exists.
	EntryBroken EntryKind = "broken"

	// EntryExtension is the extension's cloned directory. It is a real
	// directory, not a link.
	EntryExtension EntryKind = "extension"

	// EntryForeign is a non-symlink entry this tool does not own.
	// Reported as a warning, never fatal.
	EntryForeign EntryKind = "foreign"
)

// StatusEntry describes one entry under the target root.
type StatusEntry struct {
	Name string    `json:"name" yaml:"name"`
	Kind EntryKind `json:"kind" yaml:"kind"`
	Dest string    `json:"dest,omitempty" yaml:"dest,omitempty"`
}

// StatusReport is the result of the status command.
type StatusReport struct {
	TargetRoot string        `json:"target_root" yaml:"target_root"`
	Installed  bool          `json:"installed" yaml:"installed"`
	Entries    []StatusEntry `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// ExtensionStatus is the result of the extension status query.
type ExtensionStatus struct {
	Name      string `json:"name" yaml:"name"`
	Path      string `json:"path" yaml:"path"`
	Installed bool   `json:"installed" yaml:"installed"`
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Ignored   bool   `json:"ignored" yaml:"ignored"`
}
