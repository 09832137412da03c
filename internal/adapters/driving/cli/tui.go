package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui"
	"github.com/custodia-labs/assetdeck/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive asset browser.

Selected assets are listed first, followed by every asset the feed reports.

Controls:
  ↑/k, ↓/j    - Move between cards
  Space/Enter - Select / deselect
  /           - Filter by name or symbol
  r           - Refresh market data
  Tab         - Jump between sections
  s           - Show settings
  ?           - Toggle help
  q           - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

// runProgram runs the app until the user quits; tests replace it.
var runProgram = func(app *tui.App) error {
	return app.Run()
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := &tui.Ports{
		Assets:    assetService,
		Selection: selectionService,
		Settings:  settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	// The alternate screen owns the terminal; verbose output would corrupt it.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := runProgram(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
