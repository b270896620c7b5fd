package main

import (
	"fmt"

	"agentstow/pkg/extension"
	"agentstow/pkg/filesystem"
	"agentstow/pkg/hygiene"
	"agentstow/pkg/vcs"

	"github.com/spf13/cobra"
)

func init() {
	extensionCmd.AddCommand(extensionInstallCmd)
	extensionCmd.AddCommand(extensionUpdateCmd)
	extensionCmd.AddCommand(extensionRemoveCmd)
	extensionCmd.AddCommand(extensionStatusCmd)
	extensionCmd.AddCommand(extensionRepairCmd)
	rootCmd.AddCommand(extensionCmd)

	// Flat single-verb spellings of the same operations.
	rootCmd.AddCommand(
		&cobra.Command{Use: "install-extension", Short: extensionInstallCmd.Short, RunE: runExtensionInstall},
		&cobra.Command{Use: "update-extension", Short: extensionUpdateCmd.Short, RunE: runExtensionUpdate},
		&cobra.Command{Use: "remove-extension", Short: extensionRemoveCmd.Short, RunE: runExtensionRemove},
		&cobra.Command{Use: "extension-status", Short: extensionStatusCmd.Short, RunE: runExtensionStatus},
	)
}

var extensionCmd = &cobra.Command{
	Use:   "extension",
	Short: "Manage the externally-sourced extension package",
	Long: `The extension is a single package cloned from a git remote into the
target root instead of being symlinked from the source root. Its presence
is derived from the filesystem, and its clone is kept out of the enclosing
repository's version control via the ignore-list.`,
}

func (rt *runtime) extensionManager() *extension.Manager {
	fsys := filesystem.NewOS()
	name := rt.cfg.Extension.Name
	return extension.New(
		name,
		rt.cfg.Extension.URL,
		rt.paths.ExtensionPath(name),
		fsys,
		vcs.NewGit(),
		&hygiene.Checker{
			IgnoreFile: rt.paths.IgnoreFile(),
			Entry:      rt.paths.IgnoreEntry(name),
			FS:         fsys,
		},
	)
}

func runExtensionInstall(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	mgr := rt.extensionManager()
	if err := mgr.Install(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "extension %q installed at %s\n", mgr.Name, mgr.Path)
	return nil
}

func runExtensionUpdate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	mgr := rt.extensionManager()
	if err := mgr.Update(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "extension %q updated\n", mgr.Name)
	return nil
}

func runExtensionRemove(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	mgr := rt.extensionManager()
	removed, err := mgr.Remove()
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "extension %q removed\n", mgr.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "extension %q is not installed, nothing to remove\n", mgr.Name)
	}
	return nil
}

func runExtensionStatus(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	status, err := rt.extensionManager().Status()
	if err != nil {
		return err
	}
	return rt.renderer.Extension(status)
}

var extensionInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Clone the extension from its remote into the target root",
	RunE:  runExtensionInstall,
}

var extensionUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fast-forward the extension's existing clone",
	RunE:  runExtensionUpdate,
}

var extensionRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete the extension's clone",
	RunE:  runExtensionRemove,
}

var extensionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the extension's branch, commit, and ignore-list state",
	RunE:  runExtensionStatus,
}

var extensionRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Add the extension's ignore-list entry if it is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		mgr := rt.extensionManager()
		changed, err := mgr.Hygiene.Repair()
		if err != nil {
			return err
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "added %q to %s\n", mgr.Hygiene.Entry, mgr.Hygiene.IgnoreFile)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "ignore-list already contains %q\n", mgr.Hygiene.Entry)
		}
		return nil
	},
}
