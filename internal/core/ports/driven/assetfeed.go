package driven

import (
	"context"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// AssetFeed fetches market data for tradable assets.
type AssetFeed interface {
	// ListAssets returns assets in feed order (by rank).
	ListAssets(ctx context.Context, query domain.AssetQuery) ([]domain.Asset, error)

	// GetAsset returns a single asset.
	// Returns domain.ErrNotFound if the feed does not know the ID.
	GetAsset(ctx context.Context, id domain.AssetID) (*domain.Asset, error)
}
