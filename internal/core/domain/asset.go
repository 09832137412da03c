package domain

import (
	"fmt"
	"math"
	"strconv"
)

// AssetID is the opaque identifier the feed assigns to an asset (e.g. "bitcoin").
type AssetID string

// String returns the string representation.
func (id AssetID) String() string {
	return string(id)
}

// Asset is a tradable asset as reported by the market feed.
// Every field is a string because the feed reports them that way; numeric
// helpers parse on demand and report whether the value was usable.
type Asset struct {
	// ID uniquely identifies the asset within the feed.
	ID AssetID `json:"id"`

	// Rank is the market-cap rank.
	Rank string `json:"rank"`

	// Symbol is the ticker symbol (e.g. "BTC").
	Symbol string `json:"symbol"`

	// Name is the human-readable asset name.
	Name string `json:"name"`

	// Supply is the circulating supply.
	Supply string `json:"supply"`

	// MaxSupply is the maximum supply, empty when unbounded.
	MaxSupply string `json:"maxSupply"`

	// MarketCapUSD is supply multiplied by price.
	MarketCapUSD string `json:"marketCapUsd"`

	// VolumeUSD24Hr is the trading volume over the last 24 hours.
	VolumeUSD24Hr string `json:"volumeUsd24Hr"`

	// PriceUSD is the volume-weighted price in USD.
	PriceUSD string `json:"priceUsd"`

	// ChangePercent24Hr is the price change over the last 24 hours.
	ChangePercent24Hr string `json:"changePercent24Hr"`

	// VWAP24Hr is the volume-weighted average price over the last 24 hours.
	VWAP24Hr string `json:"vwap24Hr"`
}

// ChangePercent parses ChangePercent24Hr.
// The boolean is false when the feed value is missing or not a number.
func (a Asset) ChangePercent() (float64, bool) {
	return parseDecimal(a.ChangePercent24Hr)
}

// Price parses PriceUSD.
func (a Asset) Price() (float64, bool) {
	return parseDecimal(a.PriceUSD)
}

// IsIncreasing reports whether the 24 hour change is strictly positive.
// A zero or unparsable change counts as not increasing.
func (a Asset) IsIncreasing() bool {
	change, ok := a.ChangePercent()
	return ok && change > 0
}

// FormatChange renders the 24 hour change with two decimals, e.g. "-1.27%".
func (a Asset) FormatChange() string {
	change, ok := a.ChangePercent()
	if !ok {
		return "--%"
	}
	return fmt.Sprintf("%.2f%%", change)
}

// FormatPrice renders the USD price as reported by the feed.
// The raw string is kept because the feed already carries full precision.
func (a Asset) FormatPrice() string {
	if a.PriceUSD == "" {
		return "--"
	}
	return a.PriceUSD
}

// DisplayName returns the name, falling back to the ID.
func (a Asset) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID.String()
}

func parseDecimal(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// AssetQuery narrows a feed listing.
type AssetQuery struct {
	// Search matches against asset ID, symbol, or name on the feed side.
	Search string

	// IDs restricts the listing to the given assets.
	IDs []AssetID

	// Limit caps the number of returned assets. Zero uses the feed default.
	Limit int

	// Offset skips the first N assets.
	Offset int
}

// FilterSelected returns the assets whose ID is in set, keeping feed order.
// This mirrors how the "Selected Assets" section is built from the feed.
func FilterSelected(assets []Asset, set SelectionSet) []Asset {
	if set.Len() == 0 || len(assets) == 0 {
		return nil
	}
	result := make([]Asset, 0, set.Len())
	for i := range assets {
		if set.Contains(assets[i].ID) {
			result = append(result, assets[i])
		}
	}
	return result
}
