package commands

import (
	"agentstow/pkg/packages"
	"agentstow/pkg/types"
)

// List enumerates the installable packages under the source root.
func List(opts Options) ([]types.Package, error) {
	return packages.Discover(opts.SourceRoot, opts.TargetRoot, opts.FS)
}
