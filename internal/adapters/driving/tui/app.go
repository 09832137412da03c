package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/views/browser"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	browserView  *browser.View
	settingsView *settings.View

	// changes signals selection writes made by other processes.
	// Nil when the storage backend cannot watch.
	changes <-chan struct{}

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       keymap.DefaultKeyMap(),
		browserView:  browser.NewView(s, ports.Assets, ports.Selection),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewBrowser,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.browserView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
// It loads assets and starts listening for external selection changes.
func (a *App) Init() tea.Cmd {
	a.changes = a.ports.Selection.Watch(a.ctx)
	return tea.Batch(
		tea.SetWindowTitle("assetdeck"),
		a.browserView.Init(),
		a.waitForChange(),
	)
}

// waitForChange blocks until the selection record changes on disk.
func (a *App) waitForChange() tea.Cmd {
	ch := a.changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return messages.SelectionChanged{}
	}
}

func (a *App) reloadSelection() tea.Cmd {
	ctx := a.ctx
	svc := a.ports.Selection
	return func() tea.Msg {
		return messages.SelectionReloaded{Selection: svc.Reload(ctx)}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SelectionChanged:
		return a, tea.Batch(a.reloadSelection(), a.waitForChange())

	case messages.SelectionToggled:
		return a, nil

	case messages.SettingsLoaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewSettings {
			return a, a.settingsView.Init()
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Feed results, reloads and spinner ticks belong to the browser even
	// while another view is showing.
	a.browserView, cmd = a.browserView.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global quit with ctrl+c
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		// Any other key closes help
		a.currentView = messages.ViewBrowser
		return a, nil

	case messages.ViewSettings:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ViewBrowser:
		if a.browserView.Filtering() {
			a.browserView, cmd = a.browserView.Update(msg)
			return a, cmd
		}
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help):
			a.currentView = messages.ViewHelp
			return a, nil
		case keymap.Matches(msg.String(), a.keymap.Settings):
			a.currentView = messages.ViewSettings
			return a, a.settingsView.Init()
		}
		a.browserView, cmd = a.browserView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewSettings:
		return a.settingsView.View()
	default:
		return a.browserView.View()
	}
}

// viewHelp renders the help view from the key bindings.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[any key] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Browser returns the browser view.
func (a *App) Browser() *browser.View {
	return a.browserView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.browserView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
