package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driven"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyFeedBaseURL    = "feed.base_url"
	KeyFeedAPIKey     = "feed.api_key"
	KeyFeedLimit      = "feed.limit"
	KeyFeedTimeout    = "feed.timeout_seconds"
	KeyFeedRate       = "feed.requests_per_second"
	KeyStorageBackend = "storage.backend"
	KeyStorageDataDir = "storage.data_dir"
)

// settingKeys lists the settable keys in display order.
var settingKeys = []string{
	KeyFeedBaseURL,
	KeyFeedAPIKey,
	KeyFeedLimit,
	KeyFeedTimeout,
	KeyFeedRate,
	KeyStorageBackend,
	KeyStorageDataDir,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	overrides   driven.SettingsOverrides
}

// NewSettingsService creates a new settings service.
// overrides may be nil.
func NewSettingsService(configStore driven.ConfigStore, overrides driven.SettingsOverrides) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		overrides:   overrides,
	}
}

// Get retrieves current application settings.
// Stored values that are missing or invalid fall back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings, err := s.stored()
	if err != nil {
		return nil, err
	}
	if s.overrides != nil {
		s.overrides.Apply(settings)
	}
	return settings, nil
}

// stored returns settings without overrides, so Set never writes
// environment values into the config file.
func (s *SettingsService) stored() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Feed: domain.FeedSettings{
			BaseURL:           s.getString(KeyFeedBaseURL, defaults.Feed.BaseURL),
			APIKey:            s.configStore.GetString(KeyFeedAPIKey),
			Limit:             s.getInt(KeyFeedLimit, defaults.Feed.Limit),
			TimeoutSeconds:    s.getInt(KeyFeedTimeout, defaults.Feed.TimeoutSeconds),
			RequestsPerSecond: s.getFloat(KeyFeedRate, defaults.Feed.RequestsPerSecond),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(KeyStorageDataDir),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(KeyFeedBaseURL, settings.Feed.BaseURL); err != nil {
		return fmt.Errorf("save feed base_url: %w", err)
	}
	if settings.Feed.APIKey != "" {
		if err := s.configStore.Set(KeyFeedAPIKey, settings.Feed.APIKey); err != nil {
			return fmt.Errorf("save feed api_key: %w", err)
		}
	}
	if err := s.configStore.Set(KeyFeedLimit, settings.Feed.Limit); err != nil {
		return fmt.Errorf("save feed limit: %w", err)
	}
	if err := s.configStore.Set(KeyFeedTimeout, settings.Feed.TimeoutSeconds); err != nil {
		return fmt.Errorf("save feed timeout: %w", err)
	}
	if err := s.configStore.Set(KeyFeedRate, settings.Feed.RequestsPerSecond); err != nil {
		return fmt.Errorf("save feed rate: %w", err)
	}
	if err := s.configStore.Set(KeyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(KeyStorageDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save storage data_dir: %w", err)
	}

	return nil
}

// Set updates a single setting. The value is parsed according to the key and
// the resulting settings must validate before anything is written.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.stored()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	switch key {
	case KeyFeedBaseURL:
		settings.Feed.BaseURL = strings.TrimRight(value, "/")
	case KeyFeedAPIKey:
		// Written directly so an empty value can clear the key.
		settings.Feed.APIKey = value
		if err := settings.Validate(); err != nil {
			return err
		}
		return s.configStore.Set(KeyFeedAPIKey, value)
	case KeyFeedLimit:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Feed.Limit = n
	case KeyFeedTimeout:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Feed.TimeoutSeconds = n
	case KeyFeedRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		settings.Feed.RequestsPerSecond = f
	case KeyStorageBackend:
		settings.Storage.Backend = domain.StorageBackend(value)
	case KeyStorageDataDir:
		settings.Storage.DataDir = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settingKeys))
	copy(out, settingKeys)
	return out
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns where settings are persisted.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(KeyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
