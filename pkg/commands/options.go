// Package commands implements the operations behind the CLI verbs. Each
// command derives state from the filesystem on every call; there is no
// manifest to drift from reality.
package commands

import (
	"agentstow/pkg/backend"
	"agentstow/pkg/types"
)

// Options carries the shared state all commands need: the two roots, the
// backend selected at startup, and the filesystem.
type Options struct {
	SourceRoot    string
	TargetRoot    string
	ExtensionName string
	FS            types.FS
	Backend       backend.Backend
	DryRun        bool
}
