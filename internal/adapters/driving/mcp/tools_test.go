package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

func assetIDs(out []AssetOutput) []string {
	ids := make([]string, len(out))
	for i, a := range out {
		ids[i] = a.ID
	}
	return ids
}

func TestHandleListAssets_All(t *testing.T) {
	server, selection, _ := newTestServer(t, &mockFeed{assets: testAssets})
	selection.Toggle(context.Background(), "ethereum")

	_, out, err := server.handleListAssets(context.Background(), nil, ListAssetsInput{})

	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
	assert.Equal(t, []string{"bitcoin", "ethereum", "tether"}, assetIDs(out.Assets))
	assert.False(t, out.Assets[0].Selected)
	assert.True(t, out.Assets[1].Selected)
	assert.Equal(t, "1.50%", out.Assets[0].Change24h)
	assert.Equal(t, "-0.75%", out.Assets[1].Change24h)
}

func TestHandleListAssets_Limit(t *testing.T) {
	server, _, _ := newTestServer(t, &mockFeed{assets: testAssets})

	_, out, err := server.handleListAssets(context.Background(), nil, ListAssetsInput{Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin", "ethereum"}, assetIDs(out.Assets))
}

func TestHandleListAssets_FeedSearch(t *testing.T) {
	server, _, _ := newTestServer(t, &mockFeed{assets: testAssets})

	_, out, err := server.handleListAssets(context.Background(), nil, ListAssetsInput{Search: "usdt"})

	require.NoError(t, err)
	assert.Equal(t, []string{"tether"}, assetIDs(out.Assets))
}

func TestHandleListAssets_FuzzyFallback(t *testing.T) {
	server, _, _ := newTestServer(t, &mockFeed{assets: testAssets})

	// "bitcon" misses on the feed and is recovered by the local ranking.
	_, out, err := server.handleListAssets(context.Background(), nil, ListAssetsInput{Search: "bitcon"})

	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin"}, assetIDs(out.Assets))
}

func TestHandleListAssets_FeedError(t *testing.T) {
	server, _, _ := newTestServer(t, &mockFeed{err: domain.ErrFeedUnavailable})

	_, _, err := server.handleListAssets(context.Background(), nil, ListAssetsInput{})

	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
}

func TestHandleGetAsset(t *testing.T) {
	server, _, _ := newTestServer(t, &mockFeed{assets: testAssets})

	_, out, err := server.handleGetAsset(context.Background(), nil, AssetIDInput{ID: "tether"})

	require.NoError(t, err)
	assert.Equal(t, "USDT", out.Symbol)
	assert.Equal(t, "0.00%", out.Change24h)
	assert.False(t, out.Selected)
}

func TestHandleGetAsset_Errors(t *testing.T) {
	server, _, _ := newTestServer(t, &mockFeed{assets: testAssets})

	_, _, err := server.handleGetAsset(context.Background(), nil, AssetIDInput{ID: "  "})
	assert.ErrorIs(t, err, ErrMissingAssetID)

	_, _, err = server.handleGetAsset(context.Background(), nil, AssetIDInput{ID: "dogecoin"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHandleToggleAsset(t *testing.T) {
	server, _, kv := newTestServer(t, &mockFeed{assets: testAssets})
	ctx := context.Background()

	_, out, err := server.handleToggleAsset(ctx, nil, AssetIDInput{ID: "bitcoin"})
	require.NoError(t, err)
	assert.True(t, out.Selected)
	assert.Equal(t, []string{"bitcoin"}, out.Selection)

	_, out, err = server.handleToggleAsset(ctx, nil, AssetIDInput{ID: "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin", "ethereum"}, out.Selection)

	_, out, err = server.handleToggleAsset(ctx, nil, AssetIDInput{ID: "bitcoin"})
	require.NoError(t, err)
	assert.False(t, out.Selected)
	assert.Equal(t, []string{"ethereum"}, out.Selection)

	stored, err := kv.Get(ctx, domain.SelectionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["ethereum"]`, string(stored))
}

func TestHandleToggleAsset_MissingID(t *testing.T) {
	server, _, _ := newTestServer(t, &mockFeed{assets: testAssets})

	_, _, err := server.handleToggleAsset(context.Background(), nil, AssetIDInput{})

	assert.ErrorIs(t, err, ErrMissingAssetID)
}

func TestHandleListSelection(t *testing.T) {
	server, selection, _ := newTestServer(t, &mockFeed{assets: testAssets})
	ctx := context.Background()

	_, out, err := server.handleListSelection(ctx, nil, ListSelectionInput{Details: true})
	require.NoError(t, err)
	assert.Empty(t, out.IDs)
	assert.Empty(t, out.Assets)

	selection.Toggle(ctx, "tether")
	selection.Toggle(ctx, "bitcoin")

	_, out, err = server.handleListSelection(ctx, nil, ListSelectionInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"tether", "bitcoin"}, out.IDs)
	assert.Empty(t, out.Assets)

	// Details come back in feed order, as the selected section shows them.
	_, out, err = server.handleListSelection(ctx, nil, ListSelectionInput{Details: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"bitcoin", "tether"}, assetIDs(out.Assets))
	assert.True(t, out.Assets[0].Selected)
}
