// Package card renders a single asset the way the browser lists it.
package card

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/assetdeck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

const (
	// Height is the number of terminal rows a rendered card occupies.
	Height = 6

	// MinWidth and MaxWidth bound the outer card width.
	MinWidth = 30
	MaxWidth = 56
)

// Card renders assets at a fixed width.
type Card struct {
	styles *styles.Styles
	width  int
}

// New creates a card renderer.
func New(s *styles.Styles) *Card {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Card{styles: s, width: MaxWidth}
}

// SetWidth sets the outer card width, clamped to [MinWidth, MaxWidth].
func (c *Card) SetWidth(width int) {
	c.width = min(max(width, MinWidth), MaxWidth)
}

// Width returns the outer card width.
func (c *Card) Width() int {
	return c.width
}

// Render draws the asset with its name, symbol badge, USD price, the
// 24 hour change and the Select/Selected button.
func (c *Card) Render(asset domain.Asset, selected, focused bool) string {
	// Border (2) and horizontal padding (2).
	inner := c.width - 4

	name := c.styles.AssetName.Render(truncate(asset.DisplayName(), inner-12))
	badge := c.styles.Badge.Render(strings.ToUpper(truncate(asset.Symbol, 8)))
	gap := max(inner-lipgloss.Width(name)-lipgloss.Width(badge), 1)
	header := name + strings.Repeat(" ", gap) + badge

	price := c.styles.Muted.Render(asset.FormatPrice()) + " " +
		c.styles.Muted.Bold(true).Render("USD")

	changeStyle := c.styles.Decrease
	if asset.IsIncreasing() {
		changeStyle = c.styles.Increase
	}
	change := changeStyle.Render(asset.FormatChange() + " today")

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		price,
		change,
		c.button(selected, inner),
	)

	frame := c.styles.Card
	if focused {
		frame = c.styles.CardFocused
	}
	return frame.Width(c.width - 2).Render(body)
}

func (c *Card) button(selected bool, width int) string {
	if selected {
		return c.styles.ButtonSelected.Width(width).Render("Selected")
	}
	return c.styles.Button.Width(width).Render("[ Select ]")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
