package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// defaultListLimit applies when list_assets is called without a limit.
const defaultListLimit = 20

// ListAssetsInput is the input schema for the list_assets tool.
type ListAssetsInput struct {
	Search string `json:"search,omitempty" jsonschema:"optional name, symbol or id to filter by"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of assets to return (default 20)"`
}

// ListAssetsOutput is the output schema for the list_assets tool.
type ListAssetsOutput struct {
	Assets []AssetOutput `json:"assets"`
	Count  int           `json:"count"`
}

// AssetOutput is an asset as reported to assistants.
type AssetOutput struct {
	ID        string `json:"id"`
	Rank      string `json:"rank"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	PriceUSD  string `json:"price_usd"`
	Change24h string `json:"change_24h"`
	Selected  bool   `json:"selected"`
}

// AssetIDInput is the input schema for tools that take one asset.
type AssetIDInput struct {
	ID string `json:"id" jsonschema:"the asset id, e.g. bitcoin"`
}

// ToggleAssetOutput is the output schema for the toggle_asset tool.
type ToggleAssetOutput struct {
	ID        string   `json:"id"`
	Selected  bool     `json:"selected"`
	Selection []string `json:"selection"`
}

// ListSelectionInput is the input schema for the list_selection tool.
type ListSelectionInput struct {
	Details bool `json:"details,omitempty" jsonschema:"also fetch market data for each selected asset"`
}

// ListSelectionOutput is the output schema for the list_selection tool.
type ListSelectionOutput struct {
	IDs    []string      `json:"ids"`
	Assets []AssetOutput `json:"assets,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_assets",
		Description: "List crypto assets by market cap rank, optionally filtered by name or symbol",
	}, s.handleListAssets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_asset",
		Description: "Get market data for a single asset",
	}, s.handleGetAsset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "toggle_asset",
		Description: "Select an asset, or deselect it if it is already selected",
	}, s.handleToggleAsset)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_selection",
		Description: "List the selected asset ids in selection order",
	}, s.handleListSelection)
}

func (s *Server) handleListAssets(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListAssetsInput,
) (*mcp.CallToolResult, ListAssetsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	term := strings.TrimSpace(input.Search)

	assets, err := s.ports.Assets.List(ctx, domain.AssetQuery{Search: term, Limit: limit})
	if err != nil {
		return nil, ListAssetsOutput{}, err
	}
	if term != "" && len(assets) == 0 {
		all, err := s.ports.Assets.List(ctx, domain.AssetQuery{})
		if err != nil {
			return nil, ListAssetsOutput{}, err
		}
		assets = s.ports.Assets.Search(all, term)
		if len(assets) > limit {
			assets = assets[:limit]
		}
	}

	out := s.toOutputs(assets)
	return nil, ListAssetsOutput{Assets: out, Count: len(out)}, nil
}

func (s *Server) handleGetAsset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssetIDInput,
) (*mcp.CallToolResult, AssetOutput, error) {
	id := domain.AssetID(strings.TrimSpace(input.ID))
	if id == "" {
		return nil, AssetOutput{}, ErrMissingAssetID
	}
	asset, err := s.ports.Assets.Get(ctx, id)
	if err != nil {
		return nil, AssetOutput{}, err
	}
	return nil, s.toOutput(*asset), nil
}

func (s *Server) handleToggleAsset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssetIDInput,
) (*mcp.CallToolResult, ToggleAssetOutput, error) {
	id := domain.AssetID(strings.TrimSpace(input.ID))
	if id == "" {
		return nil, ToggleAssetOutput{}, ErrMissingAssetID
	}

	set := s.ports.Selection.Toggle(ctx, id)
	return nil, ToggleAssetOutput{
		ID:        id.String(),
		Selected:  set.Contains(id),
		Selection: set.Strings(),
	}, nil
}

func (s *Server) handleListSelection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListSelectionInput,
) (*mcp.CallToolResult, ListSelectionOutput, error) {
	out := ListSelectionOutput{IDs: s.ports.Selection.Selected().Strings()}
	if !input.Details || len(out.IDs) == 0 {
		return nil, out, nil
	}

	assets, err := s.ports.Assets.Selected(ctx)
	if err != nil {
		return nil, ListSelectionOutput{}, err
	}
	out.Assets = s.toOutputs(assets)
	return nil, out, nil
}

func (s *Server) toOutputs(assets []domain.Asset) []AssetOutput {
	out := make([]AssetOutput, len(assets))
	for i := range assets {
		out[i] = s.toOutput(assets[i])
	}
	return out
}

func (s *Server) toOutput(a domain.Asset) AssetOutput {
	return AssetOutput{
		ID:        a.ID.String(),
		Rank:      a.Rank,
		Symbol:    a.Symbol,
		Name:      a.Name,
		PriceUSD:  a.PriceUSD,
		Change24h: a.FormatChange(),
		Selected:  s.ports.Selection.Contains(a.ID),
	}
}
