package driving

import (
	"context"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// AssetService reads the market feed and relates it to the selection.
type AssetService interface {
	// List returns assets matching query in feed order.
	List(ctx context.Context, query domain.AssetQuery) ([]domain.Asset, error)

	// Get returns a single asset.
	Get(ctx context.Context, id domain.AssetID) (*domain.Asset, error)

	// Lookup fetches several assets concurrently, returning them in the
	// order of ids. Unknown IDs are skipped.
	Lookup(ctx context.Context, ids []domain.AssetID) ([]domain.Asset, error)

	// Selected returns the currently selected assets in feed order.
	Selected(ctx context.Context) ([]domain.Asset, error)

	// Search ranks assets against a free-text term (name, symbol or ID,
	// tolerating small typos). An empty term returns assets unchanged.
	Search(assets []domain.Asset, term string) []domain.Asset
}
