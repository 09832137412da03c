package cli

import (
	"bytes"
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
	{ID: "bitcoin", Rank: "1", Symbol: "BTC", Name: "Bitcoin", PriceUSD: "67000.12", ChangePercent24Hr: "1.5", MarketCapUSD: "1320000000000"},
	{ID: "ethereum", Rank: "2", Symbol: "ETH", Name: "Ethereum", PriceUSD: "3500.00", ChangePercent24Hr: "-0.75"},
	{ID: "tether", Rank: "3", Symbol: "USDT", Name: "Tether", PriceUSD: "1.00", ChangePercent24Hr: "0"},
}

// mockFeed serves testAssets, filtering the way the feed does.
type mockFeed struct {
	err     error
	queries []domain.AssetQuery
}

func (m *mockFeed) ListAssets(_ context.Context, q domain.AssetQuery) ([]domain.Asset, error) {
	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Asset
	for _, a := range testAssets {
		if len(q.IDs) > 0 && !slices.Contains(q.IDs, a.ID) {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(q.Search)) &&
			!strings.EqualFold(a.Symbol, q.Search) {
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
	for _, a := range testAssets {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubChecker struct {
	err   error
	calls int
}

func (s *stubChecker) Ping(_ context.Context) error {
	s.calls++
	return s.err
}

type testEnv struct {
	feed      *mockFeed
	kv        *memory.KVStore
	config    *memory.ConfigStore
	selection *services.SelectionStore
	checker   *stubChecker
}

// setupServices injects services over in-memory stores and restores the
// package state when the test ends.
func setupServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		feed:    &mockFeed{},
		kv:      memory.NewKVStore(),
		config:  memory.NewConfigStore(),
		checker: &stubChecker{},
	}
	env.selection = services.NewSelectionStore(env.kv)

	SetServices(&Services{
		Assets:    services.NewAssetService(env.feed, env.selection, 20),
		Selection: env.selection,
		Settings:  services.NewSettingsService(env.config, nil),
		Feed:      env.checker,
	})
	t.Cleanup(func() { SetServices(nil) })
	return env
}

func (e *testEnv) persisted(t *testing.T) string {
	t.Helper()
	data, err := e.kv.Get(context.Background(), domain.SelectionKey)
	require.NoError(t, err)
	return string(data)
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags clears flag variables, which persist between executions.
func resetFlags() {
	verbose = false
	configDir = ""
	dataDir = ""
	storageFlag = ""
	assetsLimit = 0
	assetsSearch = ""
	assetsJSON = false
	selectionJSON = false
	selectionDetails = false
}
