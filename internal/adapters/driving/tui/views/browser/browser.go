// Package browser provides the asset browser view: the selected assets
// first, then every asset the feed lists.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/components/card"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driving"
)

// Section identifies one of the two card lists.
type Section int

const (
	// SectionSelected is the "Selected Assets" list.
	SectionSelected Section = iota
	// SectionAvailable is the "Available Assets" list.
	SectionAvailable
)

const (
	selectedTitle  = "Selected Assets"
	availableTitle = "Available Assets"
	emptySelection = "No Assets Selected"

	// headerHeight covers the title line and the blank line after it.
	headerHeight = 2
	// sectionTitleHeight covers a section title and its blank line.
	sectionTitleHeight = 2
	// filterHeight is the bordered filter input.
	filterHeight = 3
)

// View is the asset browser.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	ctx    context.Context

	assets    driving.AssetService
	selection driving.SelectionService

	card     *card.Card
	filter   *input.FilterInput
	spinner  spinner.Model
	viewport viewport.Model
	status   *status.Bar

	// all is the last feed listing; available and selected derive from it.
	all       []domain.Asset
	available []domain.Asset
	selected  []domain.Asset

	section Section
	cursor  [2]int

	loading bool
	err     error

	width  int
	height int
}

// NewView creates a new browser view.
func NewView(s *styles.Styles, assets driving.AssetService, selection driving.SelectionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	v := &View{
		styles:    s,
		keymap:    km,
		ctx:       context.Background(),
		assets:    assets,
		selection: selection,
		card:      card.New(s),
		filter:    input.NewFilterInput(s),
		spinner:   sp,
		viewport:  viewport.New(80, 24),
		status:    status.NewBar(s, km),
		section:   SectionAvailable,
	}
	v.SetDimensions(80, 24)
	return v
}

// SetContext sets the context used for feed and storage calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init starts the first feed request.
func (v *View) Init() tea.Cmd {
	return v.Refresh()
}

// Refresh starts a feed request and shows the spinner until it completes.
func (v *View) Refresh() tea.Cmd {
	v.loading = true
	v.err = nil
	v.status.SetState(status.StateLoading)
	v.render()
	return tea.Batch(v.spinner.Tick, v.loadAssets())
}

func (v *View) loadAssets() tea.Cmd {
	ctx := v.ctx
	svc := v.assets
	return func() tea.Msg {
		assets, err := svc.List(ctx, domain.AssetQuery{})
		return messages.AssetsLoaded{Assets: assets, Err: err}
	}
}

// Update handles messages for the browser.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		v.render()
		return v, cmd

	case messages.AssetsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.status.SetState(status.StateError)
			v.status.SetMessage(msg.Err.Error())
			v.render()
			return v, nil
		}
		v.all = msg.Assets
		v.status.SetState(status.StateReady)
		v.status.SetMessage("")
		v.rebuild()
		return v, nil

	case messages.SelectionReloaded:
		v.rebuild()
		return v, nil

	case tea.KeyMsg:
		if v.filter.Focused() {
			return v.updateFilter(msg)
		}
		return v.handleKey(msg)
	}

	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Up):
		v.move(-1)
	case keymap.Matches(key, v.keymap.Down):
		v.move(1)
	case keymap.Matches(key, v.keymap.Toggle):
		return v, v.toggle()
	case keymap.Matches(key, v.keymap.NextSection):
		v.switchSection()
	case keymap.Matches(key, v.keymap.Refresh):
		return v, v.Refresh()
	case keymap.Matches(key, v.keymap.Filter):
		v.status.SetState(status.StateFiltering)
		v.section = SectionAvailable
		v.render()
		return v, v.filter.Focus()
	case keymap.Matches(key, v.keymap.Back):
		if v.filter.Value() != "" {
			v.filter.Reset()
			v.rebuild()
		}
	}
	return v, nil
}

func (v *View) updateFilter(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filter.Blur()
		v.status.SetState(status.StateReady)
		v.render()
		return v, nil
	case tea.KeyEsc:
		v.filter.Reset()
		v.filter.Blur()
		v.status.SetState(status.StateReady)
		v.rebuild()
		return v, nil
	}

	before := v.filter.Value()
	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	if v.filter.Value() != before {
		v.cursor[SectionAvailable] = 0
		v.rebuild()
	}
	return v, cmd
}

// toggle flips the asset under the cursor. It runs inline so that key
// presses reach the selection store in the order they were typed.
func (v *View) toggle() tea.Cmd {
	asset, ok := v.Current()
	if !ok {
		return nil
	}
	set := v.selection.Toggle(v.ctx, asset.ID)
	v.rebuild()
	return func() tea.Msg {
		return messages.SelectionToggled{ID: asset.ID, Selection: set}
	}
}

func (v *View) move(delta int) {
	items := v.items(v.section)
	if len(items) == 0 {
		return
	}
	c := v.cursor[v.section] + delta
	v.cursor[v.section] = min(max(c, 0), len(items)-1)
	v.render()
}

func (v *View) switchSection() {
	next := SectionSelected
	if v.section == SectionSelected {
		next = SectionAvailable
	}
	if len(v.items(next)) == 0 {
		return
	}
	v.section = next
	v.render()
}

// rebuild derives both lists from the feed listing, the selection and the
// filter, then re-renders.
func (v *View) rebuild() {
	set := v.selection.Selected()
	v.selected = domain.FilterSelected(v.all, set)
	v.available = v.assets.Search(v.all, v.filter.Value())

	for _, s := range []Section{SectionSelected, SectionAvailable} {
		n := len(v.items(s))
		v.cursor[s] = min(v.cursor[s], max(n-1, 0))
	}
	if v.section == SectionSelected && len(v.selected) == 0 {
		v.section = SectionAvailable
	}

	v.status.SetCounts(set.Len(), len(v.all))
	v.render()
}

func (v *View) items(s Section) []domain.Asset {
	if s == SectionSelected {
		return v.selected
	}
	return v.available
}

// render rebuilds the viewport content and scrolls the focused card
// into view.
func (v *View) render() {
	var b strings.Builder
	focusTop, focusBottom := -1, -1

	writeSection := func(s Section, title, empty string) {
		sectionTop := lipgloss.Height(b.String()) - 1
		b.WriteString(v.styles.Section.Render(title))
		b.WriteString("\n\n")

		items := v.items(s)
		switch {
		case len(items) == 0 && v.loading:
			b.WriteString(v.spinner.View() + " Loading...\n")
		case len(items) == 0:
			b.WriteString(empty + "\n")
		}

		set := v.selection.Selected()
		for i, asset := range items {
			focused := s == v.section && i == v.cursor[s]
			if focused {
				focusTop = lipgloss.Height(b.String()) - 1
				if i == 0 {
					focusTop = sectionTop
				}
				focusBottom = lipgloss.Height(b.String()) - 1 + card.Height
			}
			b.WriteString(v.card.Render(asset, s == SectionSelected || set.Contains(asset.ID), focused))
			b.WriteString("\n")
		}
	}

	writeSection(SectionSelected, selectedTitle,
		v.styles.Placeholder.Width(v.card.Width()-2).Render(emptySelection))
	b.WriteString("\n")
	writeSection(SectionAvailable, availableTitle, v.emptyAvailable())

	v.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
	if focusTop >= 0 {
		v.scrollTo(focusTop, focusBottom)
	}
}

func (v *View) emptyAvailable() string {
	switch {
	case v.err != nil:
		return v.styles.Error.Render("Could not load assets: " + v.err.Error())
	case v.filter.Value() != "":
		return v.styles.Muted.Render(fmt.Sprintf("No assets match %q", v.filter.Value()))
	default:
		return v.styles.Muted.Render("No assets")
	}
}

func (v *View) scrollTo(top, bottom int) {
	switch {
	case top < v.viewport.YOffset:
		v.viewport.SetYOffset(top)
	case bottom > v.viewport.YOffset+v.viewport.Height:
		v.viewport.SetYOffset(bottom - v.viewport.Height)
	}
}

// View renders the browser.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("assetdeck"))
	b.WriteString("\n\n")
	if v.filterVisible() {
		b.WriteString(v.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	b.WriteString(v.status.View())
	return b.String()
}

func (v *View) filterVisible() bool {
	return v.filter.Focused() || v.filter.Value() != ""
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.card.SetWidth(width)
	v.filter.SetWidth(min(width, card.MaxWidth))
	v.status.SetWidth(width)

	v.viewport.Width = width
	// The filter row is always reserved so focusing it does not resize.
	v.viewport.Height = max(height-headerHeight-filterHeight-1, card.Height+sectionTitleHeight)
	v.render()
}

// Filtering reports whether the filter input has focus.
// While it does, every key belongs to the browser.
func (v *View) Filtering() bool {
	return v.filter.Focused()
}

// Current returns the asset under the cursor.
func (v *View) Current() (domain.Asset, bool) {
	items := v.items(v.section)
	if len(items) == 0 {
		return domain.Asset{}, false
	}
	return items[v.cursor[v.section]], true
}

// Section returns the focused section.
func (v *View) Section() Section {
	return v.section
}

// Selected returns the assets listed under "Selected Assets".
func (v *View) Selected() []domain.Asset {
	return v.selected
}

// Available returns the assets listed under "Available Assets".
func (v *View) Available() []domain.Asset {
	return v.available
}

// Loading reports whether a feed request is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last feed error.
func (v *View) Err() error {
	return v.err
}

// FilterValue returns the current filter text.
func (v *View) FilterValue() string {
	return v.filter.Value()
}
