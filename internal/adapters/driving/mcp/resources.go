package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for assetdeck resources.
	uriScheme = "assetdeck://"

	selectionURI = uriScheme + "selection"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         selectionURI,
		Name:        "selection",
		Description: "Selected asset ids, as stored under selected-assets",
		MIMEType:    "application/json",
	}, s.handleSelectionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "assets/{assetId}",
		Name:        "asset",
		Description: "Market data for a single asset",
		MIMEType:    "application/json",
	}, s.handleAssetResource)
}

// handleSelectionResource returns the selection as a JSON array of ids.
func (s *Server) handleSelectionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(s.ports.Selection.Selected().Strings())
	if err != nil {
		return nil, fmt.Errorf("marshalling selection: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

// handleAssetResource returns the raw feed record for one asset.
func (s *Server) handleAssetResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractAssetID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	asset, err := s.ports.Assets.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting asset: %w", err)
	}

	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling asset: %w", err)
	}
	return jsonResult(req.Params.URI, data), nil
}

func jsonResult(uri string, data []byte) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}
}

// extractAssetID extracts the asset ID from a URI like assetdeck://assets/{assetId}.
func extractAssetID(uri string) domain.AssetID {
	const prefix = uriScheme + "assets/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return domain.AssetID(id)
}
