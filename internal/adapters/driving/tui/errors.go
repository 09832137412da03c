package tui

import "errors"

// ErrMissingAssetService is returned when the asset service is not provided.
var ErrMissingAssetService = errors.New("tui: asset service is required")

// ErrMissingSelectionService is returned when the selection service is not provided.
var ErrMissingSelectionService = errors.New("tui: selection service is required")
