package mcp

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/assetdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/services"
)

var testAssets = []domain.Asset{
	{ID: "bitcoin", Rank: "1", Symbol: "BTC", Name: "Bitcoin", PriceUSD: "67000.12", ChangePercent24Hr: "1.5"},
	{ID: "ethereum", Rank: "2", Symbol: "ETH", Name: "Ethereum", PriceUSD: "3500.00", ChangePercent24Hr: "-0.75"},
	{ID: "tether", Rank: "3", Symbol: "USDT", Name: "Tether", PriceUSD: "1.00", ChangePercent24Hr: "0"},
}

// mockFeed serves a fixed asset list, filtering the way the feed does.
type mockFeed struct {
	assets []domain.Asset
	err    error
}

func (m *mockFeed) ListAssets(_ context.Context, q domain.AssetQuery) ([]domain.Asset, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Asset
	for _, a := range m.assets {
		if len(q.IDs) > 0 && !slices.Contains(q.IDs, a.ID) {
			continue
		}
		if q.Search != "" && !feedMatches(a, q.Search) {
			continue
		}
		out = append(out, a)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (m *mockFeed) GetAsset(_ context.Context, id domain.AssetID) (*domain.Asset, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.assets {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func feedMatches(a domain.Asset, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(a.Name), term) ||
		strings.Contains(strings.ToLower(a.Symbol), term) ||
		strings.Contains(a.ID.String(), term)
}

// newTestServer wires real services over an in-memory store.
func newTestServer(t *testing.T, feed *mockFeed) (*Server, *services.SelectionStore, *memory.KVStore) {
	t.Helper()
	kv := memory.NewKVStore()
	selection := services.NewSelectionStore(kv)
	assets := services.NewAssetService(feed, selection, 10)

	server, err := NewServer(&Ports{Assets: assets, Selection: selection}, "test")
	require.NoError(t, err)
	return server, selection, kv
}
