package driven

import "github.com/custodia-labs/assetdeck/internal/core/domain"

// SettingsOverrides layers settings from outside the config file (for
// example environment variables) on top of stored values.
type SettingsOverrides interface {
	// Apply overwrites fields of settings that the source defines.
	Apply(settings *domain.AppSettings)
}
