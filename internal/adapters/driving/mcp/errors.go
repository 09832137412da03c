// Package mcp provides an MCP (Model Context Protocol) server adapter for assetdeck.
// It lets AI assistants browse market data and manage the asset selection.
package mcp

import "errors"

var (
	// ErrMissingAssetService is returned when the asset service is not provided.
	ErrMissingAssetService = errors.New("mcp: asset service is required")

	// ErrMissingSelectionService is returned when the selection service is not provided.
	ErrMissingSelectionService = errors.New("mcp: selection service is required")

	// ErrMissingAssetID is returned when a tool is called without an asset id.
	ErrMissingAssetID = errors.New("mcp: asset id is required")
)
