// Package settings provides a read-only view of the active settings.
package settings

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driving"
)

// View shows the settings the session is running with.
type View struct {
	styles   *styles.Styles
	service  driving.SettingsService
	settings *domain.AppSettings
	path     string
	err      error
	width    int
	height   int
}

// NewView creates a new settings view. service may be nil.
func NewView(s *styles.Styles, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		width:   80,
		height:  24,
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	svc := v.service
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Path: svc.ConfigPath(), Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.SettingsLoaded:
		v.settings = msg.Settings
		v.path = msg.Path
		v.err = msg.Err
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "s":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewBrowser}
			}
		}
	}
	return v, nil
}

// View renders the settings.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	switch {
	case v.service == nil:
		b.WriteString(v.styles.Muted.Render("Settings are not available in this session."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Could not load settings: " + v.err.Error()))
	case v.settings == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		v.writeRows(&b)
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("Change values with: assetdeck settings set <key> <value>"))
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[esc] back"))
	return b.String()
}

func (v *View) writeRows(b *strings.Builder) {
	s := v.settings
	apiKey := "not set"
	if s.Feed.APIKey != "" {
		apiKey = "set"
	}
	dataDir := s.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}

	rows := [][2]string{
		{"feed.base_url", s.Feed.BaseURL},
		{"feed.api_key", apiKey},
		{"feed.limit", fmt.Sprintf("%d", s.Feed.Limit)},
		{"feed.timeout_seconds", fmt.Sprintf("%d", s.Feed.TimeoutSeconds)},
		{"feed.requests_per_second", fmt.Sprintf("%g", s.Feed.RequestsPerSecond)},
		{"storage.backend", s.Storage.Backend.Description()},
		{"storage.data_dir", dataDir},
	}
	for _, r := range rows {
		fmt.Fprintf(b, "%s %s\n", v.styles.Muted.Render(fmt.Sprintf("%-26s", r[0])), v.styles.Normal.Render(r[1]))
	}
	if v.path != "" {
		fmt.Fprintf(b, "\n%s", v.styles.Muted.Render("Config file: "+v.path))
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Settings returns the loaded settings, nil before loading.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}
