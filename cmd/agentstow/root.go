package main

import (
	"fmt"
	"os"

	"agentstow/internal/version"
	"agentstow/pkg/backend"
	"agentstow/pkg/config"
	"agentstow/pkg/filesystem"
	"agentstow/pkg/logging"
	"agentstow/pkg/paths"
	"agentstow/pkg/ui"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var (
	verbosity  int
	dryRun     bool
	strict     bool
	formatFlag string
	sourceFlag string
	targetFlag string

	rootCmd = &cobra.Command{
		Use:   "agentstow",
		Short: "A stateless installer for agent configuration packages",
		Long: `agentstow projects packages of agent configuration (agents, skills,
style guides) from a source repository into a target directory as symlinks.
It uses GNU stow when available and manages the links itself otherwise,
and it can install one extension package straight from a git remote.

There is no manifest: state is always derived from the filesystem.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Preview changes without executing them")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Treat per-package conflicts as a failure")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "auto", "Output format: auto, term, text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "root", "", "Source root (default: AGENTSTOW_ROOT or the current directory)")
	rootCmd.PersistentFlags().StringVar(&targetFlag, "target", "", "Target root (default: AGENTSTOW_TARGET or the configured value)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(manCmd)

	initTemplateFormatting()
}

// runtime bundles the state every command shares: merged config, resolved
// roots, the backend picked for this run, and the output renderer.
type runtime struct {
	cfg      *config.Config
	paths    *paths.Paths
	backend  backend.Backend
	renderer *ui.Renderer
	strict   bool
}

// newRuntime wires the shared state for one invocation. The backend is
// probed exactly once here and injected everywhere else.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load(sourceFlag)
	if err != nil {
		return nil, err
	}

	p, err := paths.New(sourceFlag, targetFlag, cfg)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() {
		log.Warn().Str("path", p.SourceRoot()).Msg("No source root configured, falling back to current directory")
	}

	format, err := ui.ParseFormat(formatFlag)
	if err != nil {
		return nil, err
	}

	fsys := filesystem.NewOS()
	return &runtime{
		cfg:   cfg,
		paths: p,
		backend: backend.Detect(backend.Options{
			SourceRoot: p.SourceRoot(),
			TargetRoot: p.TargetRoot(),
			FS:         fsys,
			DryRun:     dryRun,
		}),
		renderer: &ui.Renderer{Out: os.Stdout, Format: ui.Resolve(format, os.Stdout)},
		strict:   strict || cfg.Install.Strict,
	}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agentstow version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var completionCmd = &cobra.Command{
	Use:                   "completion [bash|zsh|fish|powershell]",
	Short:                 "Generate shell completion script",
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}

var manCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man page",
	RunE: func(cmd *cobra.Command, args []string) error {
		header := &doc.GenManHeader{
			Title:   "AGENTSTOW",
			Section: "1",
		}
		return doc.GenManTree(rootCmd, header, "/tmp")
	},
}
