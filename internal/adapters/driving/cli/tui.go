package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: heredoc.Doc(`
		Launch the interactive terminal UI for searching project documents,
		browsing projects and reading documents with matches highlighted.

		Controls:
		  ↑/k, ↓/j  Navigate
		  Enter     Search / Select
		  /         New search
		  n, N      Next / previous match
		  c         Copy snippet
		  o         Open file
		  Esc       Back
		  ?         Keybindings
		  q         Quit
	`),
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("tui panicked")
		}
	}()

	ports := tui.NewPorts(searchService, highlightService)
	ports.Project = projectService
	ports.Document = documentService
	ports.ResultAction = resultActionService
	ports.Settings = settingsService

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
