// Package env layers ASSETDECK_* environment variables over stored settings.
package env

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driven"
)

// Ensure Overrides implements the interface.
var _ driven.SettingsOverrides = (*Overrides)(nil)

// Overrides holds settings read from the environment.
// Nil fields were unset or empty and leave stored values untouched.
type Overrides struct {
	FeedBaseURL    *string `env:"ASSETDECK_FEED_BASE_URL"`
	FeedAPIKey     *string `env:"ASSETDECK_FEED_API_KEY"`
	FeedLimit      *int    `env:"ASSETDECK_FEED_LIMIT"`
	StorageBackend *string `env:"ASSETDECK_STORAGE_BACKEND"`
	DataDir        *string `env:"ASSETDECK_DATA_DIR"`
}

// Load reads overrides from the process environment.
func Load() (*Overrides, error) {
	return parse(env.Options{})
}

// LoadFrom reads overrides from vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Overrides, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Overrides, error) {
	var o Overrides
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &o, nil
}

// Apply overwrites the fields of settings that the environment defines.
func (o *Overrides) Apply(settings *domain.AppSettings) {
	if o == nil || settings == nil {
		return
	}
	if o.FeedBaseURL != nil && *o.FeedBaseURL != "" {
		settings.Feed.BaseURL = strings.TrimRight(*o.FeedBaseURL, "/")
	}
	if o.FeedAPIKey != nil && *o.FeedAPIKey != "" {
		settings.Feed.APIKey = *o.FeedAPIKey
	}
	if o.FeedLimit != nil && *o.FeedLimit > 0 {
		settings.Feed.Limit = *o.FeedLimit
	}
	if o.StorageBackend != nil && *o.StorageBackend != "" {
		settings.Storage.Backend = domain.StorageBackend(*o.StorageBackend)
	}
	if o.DataDir != nil && *o.DataDir != "" {
		settings.Storage.DataDir = *o.DataDir
	}
}

// Keys lists the variables that are set, for display.
func (o *Overrides) Keys() []string {
	if o == nil {
		return nil
	}
	var keys []string
	if o.FeedBaseURL != nil {
		keys = append(keys, "ASSETDECK_FEED_BASE_URL")
	}
	if o.FeedAPIKey != nil {
		keys = append(keys, "ASSETDECK_FEED_API_KEY")
	}
	if o.FeedLimit != nil {
		keys = append(keys, "ASSETDECK_FEED_LIMIT")
	}
	if o.StorageBackend != nil {
		keys = append(keys, "ASSETDECK_STORAGE_BACKEND")
	}
	if o.DataDir != nil {
		keys = append(keys, "ASSETDECK_DATA_DIR")
	}
	return keys
}
