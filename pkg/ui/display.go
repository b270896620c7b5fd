package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"agentstow/pkg/types"
)

// Renderer writes command results in the chosen format. FormatAuto must be
// resolved by the caller before constructing a Renderer.
type Renderer struct {
	Out    io.Writer
	Format Format
}

// Report renders a batch operation's per-package results and summary.
func (r *Renderer) Report(report *types.Report) error {
	switch r.Format {
	case FormatJSON:
		return r.json(report)
	case FormatYAML:
		return r.yaml(report)
	}

	styled := r.Format == FormatTerminal
	for _, res := range report.Results {
		line := fmt.Sprintf("%s %-16s %s", outcomeGlyph(res.Outcome, styled), res.Package, res.Detail)
		fmt.Fprintln(r.Out, line)
	}

	summary := report.Summary()
	if report.DryRun {
		summary += " [dry run]"
	}
	if styled {
		summary = pterm.Bold.Sprint(summary)
	}
	fmt.Fprintln(r.Out, summary)
	return nil
}

// Status renders the target-root inventory.
func (r *Renderer) Status(report *types.StatusReport) error {
	switch r.Format {
	case FormatJSON:
		return r.json(report)
	case FormatYAML:
		return r.yaml(report)
	}

	if !report.Installed {
		fmt.Fprintf(r.Out, "not installed: %s does not exist\n", report.TargetRoot)
		return nil
	}

	styled := r.Format == FormatTerminal
	for _, entry := range report.Entries {
		line := fmt.Sprintf("%-10s %-16s", kindLabel(entry.Kind, styled), entry.Name)
		if entry.Dest != "" {
			line += " -> " + entry.Dest
		}
		fmt.Fprintln(r.Out, line)
	}
	fmt.Fprintf(r.Out, "%d entries under %s\n", len(report.Entries), report.TargetRoot)
	return nil
}

// List renders the installable package set.
func (r *Renderer) List(pkgs []types.Package) error {
	switch r.Format {
	case FormatJSON:
		return r.json(pkgs)
	case FormatYAML:
		return r.yaml(pkgs)
	}

	styled := r.Format == FormatTerminal
	for _, pkg := range pkgs {
		name := pkg.Name
		if styled {
			name = styleEmphasis.Render(name)
		}
		fmt.Fprintf(r.Out, "%s\t%s\n", name, pkg.SourcePath)
	}
	fmt.Fprintf(r.Out, "%d packages\n", len(pkgs))
	return nil
}

// Extension renders the extension's lifecycle status.
func (r *Renderer) Extension(status *types.ExtensionStatus) error {
	switch r.Format {
	case FormatJSON:
		return r.json(status)
	case FormatYAML:
		return r.yaml(status)
	}

	if !status.Installed {
		fmt.Fprintf(r.Out, "extension %q: not installed\n", status.Name)
		return nil
	}

	fmt.Fprintf(r.Out, "extension %q at %s\n", status.Name, status.Path)
	fmt.Fprintf(r.Out, "  branch: %s\n", status.Branch)
	fmt.Fprintf(r.Out, "  commit: %s\n", status.Commit)
	if status.Ignored {
		fmt.Fprintln(r.Out, "  ignore-list: ok")
	} else {
		fmt.Fprintln(r.Out, "  ignore-list: missing entry (run extension install or repair)")
	}
	return nil
}

func (r *Renderer) json(v interface{}) error {
	enc := json.NewEncoder(r.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) yaml(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.Out.Write(data)
	return err
}
