package main

import (
	"context"
	"fmt"

	"github.com/custodia-labs/assetdeck/internal/adapters/driven/config/env"
	configfile "github.com/custodia-labs/assetdeck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/assetdeck/internal/adapters/driven/feed/coincap"
	storagefile "github.com/custodia-labs/assetdeck/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/assetdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/assetdeck/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/cli"
	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driven"
	"github.com/custodia-labs/assetdeck/internal/core/services"
	"github.com/custodia-labs/assetdeck/internal/logger"
)

// wire builds every service from flags, config file and environment.
// The selection is restored here, once, before any command runs.
func wire(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := openConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	overrides, err := env.Load()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, overrides)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if opts.Storage != "" {
		settings.Storage.Backend = opts.Storage
	}
	if opts.DataDir != "" {
		settings.Storage.DataDir = opts.DataDir
	}

	kv, closeFn, err := openStorage(settings.Storage)
	if err != nil {
		return nil, err
	}
	logger.Debug("storage: %s", settings.Storage.Backend.Description())

	feed := coincap.NewClient(coincap.ConfigFromSettings(settings.Feed))

	selection := services.NewSelectionStore(kv)
	selection.Restore(ctx)

	return &cli.Services{
		Assets:    services.NewAssetService(feed, selection, settings.Feed.Limit),
		Selection: selection,
		Settings:  settingsService,
		Feed:      feed,
		Close:     closeFn,
	}, nil
}

// openConfig returns the TOML config store, or an in-memory one when
// nothing should touch disk.
func openConfig(opts cli.Options) (driven.ConfigStore, error) {
	if opts.Storage == domain.StorageBackendMemory {
		return memory.NewConfigStore(), nil
	}
	return configfile.NewConfigStore(opts.ConfigDir)
}

func openStorage(s domain.StorageSettings) (driven.KVStore, func() error, error) {
	switch s.Backend {
	case domain.StorageBackendSQLite:
		store, err := sqlite.NewStore(s.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store.KVStore(), store.Close, nil
	case domain.StorageBackendFile:
		store, err := storagefile.NewStore(s.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file store: %w", err)
		}
		return store, nil, nil
	case domain.StorageBackendMemory:
		return memory.NewKVStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: storage backend %q", domain.ErrUnsupportedType, s.Backend)
	}
}
