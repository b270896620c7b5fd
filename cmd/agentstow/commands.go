package main

import (
	"fmt"

	"agentstow/pkg/commands"
	"agentstow/pkg/config"
	"agentstow/pkg/errors"
	"agentstow/pkg/filesystem"
	"agentstow/pkg/types"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(restowCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(genconfigCmd)
}

func (rt *runtime) commandOptions() commands.Options {
	return commands.Options{
		SourceRoot:    rt.paths.SourceRoot(),
		TargetRoot:    rt.paths.TargetRoot(),
		ExtensionName: rt.cfg.Extension.Name,
		FS:            filesystem.NewOS(),
		Backend:       rt.backend,
		DryRun:        dryRun,
	}
}

// finishReport renders a batch report and applies the strict policy:
// conflicts are warnings by default, failures under --strict.
func (rt *runtime) finishReport(report *types.Report) error {
	if err := rt.renderer.Report(report); err != nil {
		return err
	}
	if rt.strict && report.Conflicts() > 0 {
		return errors.Newf(errors.ErrConflict, "%d package(s) in conflict", report.Conflicts())
	}
	return nil
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Link every package into the target root",
	Long: `Install creates one symlink per package, from the target root back to
the package directory under the source root. Existing correct links are left
alone, stale links are replaced, and entries that are not symlinks are
reported as conflicts and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		report, err := commands.Install(rt.commandOptions())
		if err != nil {
			return err
		}
		return rt.finishReport(report)
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove every package's symlink from the target root",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		report, err := commands.Uninstall(rt.commandOptions())
		if err != nil {
			return err
		}
		return rt.finishReport(report)
	},
}

var restowCmd = &cobra.Command{
	Use:   "restow",
	Short: "Refresh every package's symlink (uninstall + install)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		report, err := commands.Restow(rt.commandOptions())
		if err != nil {
			return err
		}
		return rt.finishReport(report)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Classify every entry under the target root",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		report, err := commands.Status(rt.commandOptions())
		if err != nil {
			return err
		}
		return rt.renderer.Status(report)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the installable packages under the source root",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		pkgs, err := commands.List(rt.commandOptions())
		if err != nil {
			return err
		}
		return rt.renderer.List(pkgs)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove dangling symlinks under the target root",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		report, err := commands.Clean(rt.commandOptions())
		if err != nil {
			return err
		}
		return rt.finishReport(report)
	},
}

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Print the default configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.GenerateDefault()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
