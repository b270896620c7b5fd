// Package hygiene keeps the extension clone out of the enclosing
// repository's version control: it checks the ignore-list for the
// extension's entry and can append it when missing. It only ever appends;
// existing content is never rewritten or reordered.
package hygiene

import (
	"os"
	"strings"

	"agentstow/pkg/errors"
	"agentstow/pkg/logging"
	"agentstow/pkg/types"
)

// Checker inspects and repairs one ignore-list file for one entry.
type Checker struct {
	// IgnoreFile is the path of the line-oriented ignore-list.
	IgnoreFile string

	// Entry is the path that must be excluded, e.g. ".claude/extras".
	Entry string

	FS types.FS
}

// Check reports whether the entry is present. A missing ignore file is an
// empty list, not an error. Advisory: callers never fail on it.
func (c *Checker) Check() (bool, error) {
	data, err := c.FS.ReadFile(c.IgnoreFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrFileAccess, "cannot read ignore file").
			WithDetail("path", c.IgnoreFile)
	}
	return containsEntry(string(data), c.Entry), nil
}

// Repair appends the entry if and only if it is missing. Repeated calls
// produce no duplicates. Returns true when the file was modified.
func (c *Checker) Repair() (bool, error) {
	logger := logging.GetLogger("hygiene")

	present, err := c.Check()
	if err != nil {
		return false, err
	}
	if present {
		logger.Debug().Str("entry", c.Entry).Msg("Ignore entry already present")
		return false, nil
	}

	existing, err := c.FS.ReadFile(c.IgnoreFile)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrap(err, errors.ErrFileAccess, "cannot read ignore file").
			WithDetail("path", c.IgnoreFile)
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}
	b.WriteString("# agentstow extension clone\n")
	b.WriteString(c.Entry + "/\n")

	if err := c.FS.WriteFile(c.IgnoreFile, []byte(b.String()), 0644); err != nil {
		return false, errors.Wrap(err, errors.ErrFileWrite, "cannot update ignore file").
			WithDetail("path", c.IgnoreFile)
	}

	logger.Info().Str("entry", c.Entry).Str("file", c.IgnoreFile).Msg("Added ignore entry")
	return true, nil
}

// containsEntry matches the entry against each line, tolerating trailing
// slashes and surrounding whitespace on either side.
func containsEntry(content, entry string) bool {
	want := strings.TrimSuffix(entry, "/")
	for _, line := range strings.Split(content, "\n") {
		got := strings.TrimSuffix(strings.TrimSpace(line), "/")
		if got != "" && got == want {
			return true
		}
	}
	return false
}
