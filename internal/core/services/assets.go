package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driven"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driving"
)

// Ensure AssetService implements the interface.
var _ driving.AssetService = (*AssetService)(nil)

const (
	// lookupConcurrency caps parallel single-asset requests.
	lookupConcurrency = 4

	// maxTypoDistance is the largest edit distance Search still accepts.
	maxTypoDistance = 2

	// minFuzzyTermLength keeps one- and two-letter terms to substring matches.
	minFuzzyTermLength = 3

	// longTermLength is where Search starts allowing maxTypoDistance;
	// shorter terms tolerate a single edit.
	longTermLength = 6
)

// AssetService relates the market feed to the current selection.
type AssetService struct {
	feed      driven.AssetFeed
	selection driving.SelectionService
	limit     int
}

// NewAssetService creates a new asset service.
// limit is the page size used when a query does not set one.
func NewAssetService(feed driven.AssetFeed, selection driving.SelectionService, limit int) *AssetService {
	return &AssetService{
		feed:      feed,
		selection: selection,
		limit:     limit,
	}
}

// List returns assets matching query in feed order.
func (s *AssetService) List(ctx context.Context, query domain.AssetQuery) ([]domain.Asset, error) {
	if s.feed == nil {
		return nil, domain.ErrFeedUnavailable
	}
	if query.Limit <= 0 {
		query.Limit = s.limit
	}
	assets, err := s.feed.ListAssets(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// Get returns a single asset.
func (s *AssetService) Get(ctx context.Context, id domain.AssetID) (*domain.Asset, error) {
	if s.feed == nil {
		return nil, domain.ErrFeedUnavailable
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	asset, err := s.feed.GetAsset(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get asset %s: %w", id, err)
	}
	return asset, nil
}

// Lookup fetches ids concurrently and returns them in the order given.
// IDs the feed does not know are skipped; any other failure aborts.
func (s *AssetService) Lookup(ctx context.Context, ids []domain.AssetID) ([]domain.Asset, error) {
	if s.feed == nil {
		return nil, domain.ErrFeedUnavailable
	}

	found := make([]*domain.Asset, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)

	for i, id := range ids {
		g.Go(func() error {
			asset, err := s.feed.GetAsset(gctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("get asset %s: %w", id, err)
			}
			found[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]domain.Asset, 0, len(ids))
	for _, a := range found {
		if a != nil {
			result = append(result, *a)
		}
	}
	return result, nil
}

// Selected returns the selected assets in feed order.
// The listing is restricted to the selected IDs so assets outside the
// default page are still returned.
func (s *AssetService) Selected(ctx context.Context) ([]domain.Asset, error) {
	set := s.selection.Selected()
	if set.IsEmpty() {
		return []domain.Asset{}, nil
	}
	assets, err := s.List(ctx, domain.AssetQuery{IDs: set.IDs(), Limit: set.Len()})
	if err != nil {
		return nil, err
	}
	return domain.FilterSelected(assets, set), nil
}

// Search ranks assets against term.
// Substring matches on symbol, name or ID come first, in feed order; then
// near-misses within a small edit distance, closest first.
func (s *AssetService) Search(assets []domain.Asset, term string) []domain.Asset {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return assets
	}

	type scored struct {
		asset    domain.Asset
		distance int
	}

	var exact []domain.Asset
	var fuzzy []scored
	for _, a := range assets {
		fields := []string{
			strings.ToLower(a.Symbol),
			strings.ToLower(a.Name),
			strings.ToLower(a.ID.String()),
		}
		if matchesSubstring(fields, term) {
			exact = append(exact, a)
			continue
		}
		budget := typoBudget(term)
		if budget == 0 {
			continue
		}
		if d := closestDistance(fields, term); d <= budget {
			fuzzy = append(fuzzy, scored{asset: a, distance: d})
		}
	}

	sort.SliceStable(fuzzy, func(i, j int) bool {
		return fuzzy[i].distance < fuzzy[j].distance
	})

	result := make([]domain.Asset, 0, len(exact)+len(fuzzy))
	result = append(result, exact...)
	for _, f := range fuzzy {
		result = append(result, f.asset)
	}
	return result
}

func typoBudget(term string) int {
	switch n := len([]rune(term)); {
	case n < minFuzzyTermLength:
		return 0
	case n < longTermLength:
		return 1
	default:
		return maxTypoDistance
	}
}

func matchesSubstring(fields []string, term string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(f, term) {
			return true
		}
	}
	return false
}

func closestDistance(fields []string, term string) int {
	best := -1
	for _, f := range fields {
		if f == "" {
			continue
		}
		d := levenshtein.ComputeDistance(f, term)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return maxTypoDistance + 1
	}
	return best
}
