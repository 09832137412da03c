// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// AssetsLoaded carries a feed listing back to the model.
type AssetsLoaded struct {
	Assets []domain.Asset
	Err    error
}

// SelectionToggled is sent after an asset was selected or deselected.
type SelectionToggled struct {
	ID        domain.AssetID
	Selection domain.SelectionSet
}

// SelectionChanged signals that the persisted selection was changed by
// another process.
type SelectionChanged struct{}

// SelectionReloaded carries the selection re-read from storage.
type SelectionReloaded struct {
	Selection domain.SelectionSet
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Path     string
	Err      error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBrowser shows the selected and available assets.
	ViewBrowser ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings shows the active settings.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowser:
		return "browser"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
