package main

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

func init() {
	rootCmd.AddCommand(docsCmd)
}

// loadTopics reads the embedded topic files, keyed by their basename
// without the extension.
func loadTopics() (map[string]string, error) {
	entries, err := topicsFS.ReadDir("topics")
	if err != nil {
		return nil, err
	}
	topics := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		content, err := topicsFS.ReadFile(path.Join("topics", entry.Name()))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))
		topics[name] = string(content)
	}
	return topics, nil
}

// renderTopic converts markdown to terminal output with glamour,
// falling back to the raw text when rendering is not possible.
func renderTopic(content string) string {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return content
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the built-in documentation",
	Long: `Docs renders the built-in documentation topics. Without an argument
it lists the available topics.`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		topics, err := loadTopics()
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, 0, len(topics))
		for name := range topics {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, cobra.ShellCompDirectiveNoFileComp
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := loadTopics()
		if err != nil {
			return err
		}

		if len(args) == 0 {
			names := make([]string, 0, len(topics))
			for name := range topics {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(cmd.OutOrStdout(), "Available topics:")
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "\nUse 'agentstow docs <topic>' to read one.")
			return nil
		}

		content, ok := topics[args[0]]
		if !ok {
			return fmt.Errorf("unknown topic %q, run 'agentstow docs' for the list", args[0])
		}
		fmt.Fprint(cmd.OutOrStdout(), renderTopic(content))
		return nil
	},
}
