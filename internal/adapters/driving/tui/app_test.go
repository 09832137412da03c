package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/assetdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/services"
)

var testAssets = []domain.Asset{
	{ID: "bitcoin", Rank: "1", Symbol: "BTC", Name: "Bitcoin", PriceUSD: "67000.12", ChangePercent24Hr: "1.5"},
	{ID: "ethereum", Rank: "2", Symbol: "ETH", Name: "Ethereum", PriceUSD: "3500.00", ChangePercent24Hr: "-0.75"},
}

type mockFeed struct{}

func (mockFeed) ListAssets(_ context.Context, _ domain.AssetQuery) ([]domain.Asset, error) {
	return testAssets, nil
}

func (mockFeed) GetAsset(_ context.Context, _ domain.AssetID) (*domain.Asset, error) {
	return nil, domain.ErrNotFound
}

// watchingKV is an in-memory store whose changes are signalled by the test.
type watchingKV struct {
	*memory.KVStore
	ch chan struct{}
}

func (w *watchingKV) Watch(_ context.Context, _ string) (<-chan struct{}, error) {
	return w.ch, nil
}

func newTestPorts(kv *memory.KVStore) (*Ports, *services.SelectionStore) {
	selection := services.NewSelectionStore(kv)
	return &Ports{
		Assets:    services.NewAssetService(mockFeed{}, selection, 20),
		Selection: selection,
		Settings:  services.NewSettingsService(memory.NewConfigStore(), nil),
	}, selection
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	ports, _ := newTestPorts(memory.NewKVStore())
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 60)
	app.Update(messages.AssetsLoaded{Assets: testAssets})
	return app
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewApp_Success(t *testing.T) {
	ports, _ := newTestPorts(memory.NewKVStore())

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewBrowser, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports, _ := newTestPorts(memory.NewKVStore())

	_, err := NewApp(&Ports{Selection: ports.Selection})
	assert.ErrorIs(t, err, ErrMissingAssetService)

	_, err = NewApp(&Ports{Assets: ports.Assets})
	assert.ErrorIs(t, err, ErrMissingSelectionService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingAssetService)
}

func TestNewApp_SettingsOptional(t *testing.T) {
	ports, _ := newTestPorts(memory.NewKVStore())
	ports.Settings = nil

	app, err := NewApp(ports)

	require.NoError(t, err)
	app.SetDimensions(80, 24)
	app.Update(key("s"))
	assert.Contains(t, app.View(), "not available")
}

func TestApp_WithContext(t *testing.T) {
	ports, _ := newTestPorts(memory.NewKVStore())
	app, _ := NewApp(ports)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	result := app.WithContext(ctx)

	assert.Same(t, app, result)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	ports, _ := newTestPorts(memory.NewKVStore())
	app, _ := NewApp(ports)

	cmd := app.Init()

	assert.NotNil(t, cmd)
	assert.Nil(t, app.changes)
	assert.True(t, app.Browser().Loading())
}

func TestApp_WindowSize(t *testing.T) {
	ports, _ := newTestPorts(memory.NewKVStore())
	app, _ := NewApp(ports)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_View_Browser(t *testing.T) {
	app := newTestApp(t)

	out := app.View()

	assert.Contains(t, out, "assetdeck")
	assert.Contains(t, out, "Selected Assets")
	assert.Contains(t, out, "No Assets Selected")
	assert.Contains(t, out, "Available Assets")
	assert.Contains(t, out, "Ethereum")
}

func TestApp_ToggleThroughBrowser(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(key("space"))
	require.NotNil(t, cmd)
	_, cmd = app.Update(cmd())
	assert.Nil(t, cmd)

	assert.True(t, app.ports.Selection.Contains("bitcoin"))
	assert.NotContains(t, app.View(), "No Assets Selected")
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(key("q"))
	assert.True(t, isQuit(cmd))

	_, cmd = app.Update(key("ctrl+c"))
	assert.True(t, isQuit(cmd))

	_, cmd = app.Update(messages.Quit{})
	assert.True(t, isQuit(cmd))
}

func TestApp_QuitIgnoredWhileFiltering(t *testing.T) {
	app := newTestApp(t)
	app.Update(key("/"))

	_, cmd := app.Update(key("q"))

	assert.False(t, isQuit(cmd))
	assert.Equal(t, "q", app.Browser().FilterValue())
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t)

	app.Update(key("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	out := app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "filter")
	assert.Contains(t, out, "refresh")

	app.Update(key("x"))
	assert.Equal(t, messages.ViewBrowser, app.CurrentView())
}

func TestApp_Settings(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(key("s"))
	assert.Equal(t, messages.ViewSettings, app.CurrentView())
	require.NotNil(t, cmd)

	app.Update(cmd())
	assert.Contains(t, app.View(), "feed.base_url")
	assert.Contains(t, app.View(), domain.DefaultFeedBaseURL)

	_, cmd = app.Update(key("esc"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewBrowser, app.CurrentView())
}

func TestApp_ExternalChangeReloadsSelection(t *testing.T) {
	kv := &watchingKV{KVStore: memory.NewKVStore(), ch: make(chan struct{}, 1)}
	ports, _ := newTestPorts(kv.KVStore)
	ports.Selection = services.NewSelectionStore(kv)
	ports.Assets = services.NewAssetService(mockFeed{}, ports.Selection, 20)
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(100, 60)
	app.Init()
	require.NotNil(t, app.changes)
	app.Update(messages.AssetsLoaded{Assets: testAssets})

	// Another process writes the record, then the watcher fires.
	require.NoError(t, kv.Put(context.Background(), domain.SelectionKey, []byte(`["ethereum"]`)))
	kv.ch <- struct{}{}

	msg := app.waitForChange()()
	assert.Equal(t, messages.SelectionChanged{}, msg)

	_, cmd := app.Update(msg)
	require.NotNil(t, cmd)
	reloaded := app.reloadSelection()()
	app.Update(reloaded)

	require.Len(t, app.Browser().Selected(), 1)
	assert.Equal(t, domain.AssetID("ethereum"), app.Browser().Selected()[0].ID)
}

func TestApp_WaitForChange_ClosedChannel(t *testing.T) {
	app := newTestApp(t)
	ch := make(chan struct{})
	close(ch)
	app.changes = ch

	assert.Nil(t, app.waitForChange()())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: domain.ErrFeedUnavailable})

	assert.ErrorIs(t, app.Err(), domain.ErrFeedUnavailable)
}
