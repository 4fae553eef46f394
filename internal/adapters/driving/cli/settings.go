package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long:  `View and change highlight, render, search, cache and pipeline settings.`,
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: heredoc.Doc(`
		Change one setting and save it to config.toml.

		Keys:
		  highlight.case_sensitive     true|false
		  highlight.whole_words        true|false
		  highlight.max_matches        integer >= 0
		  render.format                ansi|html|plain|json|yaml
		  render.color                 auto|always|never
		  search.limit                 integer >= 1
		  search.snippet_radius        integer >= 0
		  cache.ttl                    duration, e.g. 5m (0 disables)
		  cache.max_entries            integer >= 1
		  pipeline.processors          comma-separated names
		  pipeline.chunker.chunk_size  integer >= 1
		  pipeline.chunker.overlap     integer >= 0
	`),
	Example: heredoc.Doc(`
		scopeiq settings set highlight.whole_words true
		scopeiq settings set render.format plain
	`),
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Highlight]")
	cmd.Printf("  Case sensitive: %s\n", yesNo(settings.Highlight.CaseSensitive))
	cmd.Printf("  Whole words:    %s\n", yesNo(settings.Highlight.WholeWordsOnly))
	cmd.Printf("  Max matches:    %d\n", settings.Highlight.MaxMatches)
	cmd.Println()

	cmd.Println("[Render]")
	cmd.Printf("  Format: %s\n", settings.Render.Format)
	cmd.Printf("  Colour: %s\n", settings.Render.Color.Description())
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Limit:          %d\n", settings.Search.Limit)
	cmd.Printf("  Snippet radius: %d\n", settings.Search.SnippetRadius)
	cmd.Println()

	cmd.Println("[Cache]")
	if settings.Cache.TTL > 0 {
		cmd.Printf("  TTL:         %s\n", settings.Cache.TTL)
	} else {
		cmd.Printf("  TTL:         disabled\n")
	}
	cmd.Printf("  Max entries: %d\n", settings.Cache.MaxEntries)
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Processors: %s\n", strings.Join(settings.Pipeline.Processors, ", "))
	names := make([]string, 0, len(settings.Pipeline.ProcessorConfigs))
	for name := range settings.Pipeline.ProcessorConfigs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg := settings.Pipeline.ProcessorConfigs[name]
		keys := make([]string, 0, len(cfg))
		for k := range cfg {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("  %s.%s: %v\n", name, k, cfg[k])
		}
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("%s set to %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
