package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// apiKeySetting is prompted for without echo when no value is given.
const apiKeySetting = "feed.api_key"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the asset feed and storage backend.

Settings live in ~/.assetdeck/config.toml. ASSETDECK_* environment
variables override the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change a single setting. Available keys:

  feed.base_url             API root (default https://api.coincap.io/v2)
  feed.api_key              bearer token; prompted for when value is omitted
  feed.limit                assets per listing (1-2000)
  feed.timeout_seconds      HTTP timeout per request
  feed.requests_per_second  client-side rate limit
  storage.backend           sqlite, file or memory
  storage.data_dir          where durable backends keep their files`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and contact the feed",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCheck,
}

// readSecret reads a value without echo; tests replace it.
var readSecret = readPassword

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Current Settings")
	fmt.Fprintln(out, "================")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Feed]")
	fmt.Fprintf(out, "  Base URL: %s\n", settings.Feed.BaseURL)
	if settings.Feed.APIKey != "" {
		fmt.Fprintf(out, "  API Key: %s\n", maskAPIKey(settings.Feed.APIKey))
	} else {
		fmt.Fprintf(out, "  API Key: (not set)\n")
	}
	fmt.Fprintf(out, "  Limit: %d\n", settings.Feed.Limit)
	fmt.Fprintf(out, "  Timeout: %ds\n", settings.Feed.TimeoutSeconds)
	fmt.Fprintf(out, "  Rate: %.2f requests/s\n", settings.Feed.RequestsPerSecond)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "[Storage]")
	fmt.Fprintf(out, "  Backend: %s\n", settings.Storage.Backend.Description())
	dir := settings.Storage.DataDir
	if dir == "" {
		dir = "(default)"
	}
	fmt.Fprintf(out, "  Data dir: %s\n", dir)
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config file: %s\n", settingsService.ConfigPath())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == apiKeySetting:
		fmt.Fprint(cmd.OutOrStdout(), "API key: ")
		value = readSecret(cmd.InOrStdin())
		fmt.Fprintln(cmd.OutOrStdout())
	default:
		return fmt.Errorf("%w: %s needs a value", domain.ErrInvalidInput, key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == apiKeySetting {
		shown = maskAPIKey(value)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, shown)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Settings: ok")

	if feedChecker == nil {
		return nil
	}
	if err := feedChecker.Ping(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Feed: reachable")
	return nil
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
