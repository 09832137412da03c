// Package tui provides an interactive terminal user interface for assetdeck.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/assetdeck/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assets reads the market feed.
	Assets driving.AssetService

	// Selection owns the persisted selection.
	Selection driving.SelectionService

	// Settings is optional; without it the settings view says so.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Assets == nil {
		return ErrMissingAssetService
	}
	if p.Selection == nil {
		return ErrMissingSelectionService
	}
	return nil
}
