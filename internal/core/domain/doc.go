// Package domain defines the core business entities for assetdeck.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Asset: A tradable asset as reported by the market feed
//   - AssetID: The opaque identifier the feed assigns to an asset
//   - SelectionSet: The ordered, duplicate-free set of selected asset IDs
//   - AppSettings: Feed and storage configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
