// Package cli implements the assetdeck command line using cobra.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driving"
	"github.com/custodia-labs/assetdeck/internal/logger"
)

// version is overridden at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Options carries the root flags to the bootstrap function.
type Options struct {
	ConfigDir string
	DataDir   string
	Storage   domain.StorageBackend
}

// FeedChecker reports whether the asset feed is reachable.
type FeedChecker interface {
	Ping(ctx context.Context) error
}

// Services is everything the commands need.
type Services struct {
	Assets    driving.AssetService
	Selection driving.SelectionService
	Settings  driving.SettingsService
	Feed      FeedChecker

	// Close releases storage. May be nil.
	Close func() error
}

// BootstrapFunc builds services once flags are parsed.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	verbose     bool
	configDir   string
	dataDir     string
	storageFlag string

	bootstrap BootstrapFunc
	closer    func() error

	assetService     driving.AssetService
	selectionService driving.SelectionService
	settingsService  driving.SettingsService
	feedChecker      FeedChecker
)

var rootCmd = &cobra.Command{
	Use:   "assetdeck",
	Short: "Browse crypto assets and keep a list of favourites",
	Long: `assetdeck lists market data for crypto assets and lets you keep a
persistent selection of the ones you care about.

Run "assetdeck tui" for the interactive browser.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.assetdeck)")
	flags.StringVar(&dataDir, "data-dir", "", "data directory (default ~/.assetdeck/data)")
	flags.StringVar(&storageFlag, "storage", "", "storage backend: sqlite, file or memory")
}

// SetBootstrap registers the function that wires services after flag parsing.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices injects services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	assetService = s.Assets
	selectionService = s.Selection
	settingsService = s.Settings
	feedChecker = s.Feed
	closer = s.Close
}

// SetVersion sets the version reported by "assetdeck version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases storage afterwards.
func Execute() error {
	err := rootCmd.Execute()
	if closer != nil {
		if cerr := closer(); cerr != nil {
			logger.Warn("closing storage: %v", cerr)
		}
		closer = nil
	}
	return err
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	opts := Options{
		ConfigDir: configDir,
		DataDir:   dataDir,
	}
	if storageFlag != "" {
		backend := domain.StorageBackend(storageFlag)
		if !backend.IsValid() {
			return fmt.Errorf("%w: --storage %q (want sqlite, file or memory)", domain.ErrUnsupportedType, storageFlag)
		}
		opts.Storage = backend
	}

	if bootstrap == nil {
		return nil
	}
	services, err := bootstrap(commandContext(cmd), opts)
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

var (
	errNoAssets    = errors.New("asset service not configured")
	errNoSelection = errors.New("selection service not configured")
	errNoSettings  = errors.New("settings service not configured")
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
