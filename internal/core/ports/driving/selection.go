package driving

import (
	"context"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// SelectionService owns the set of selected assets and keeps durable
// storage in step with it.
//
// Toggle is the only mutation. There is deliberately no Add, Remove or
// Clear: callers always know current membership through Contains.
type SelectionService interface {
	// Restore loads the persisted selection, replacing the in-memory set.
	// A missing or corrupt record yields an empty set; it never fails.
	Restore(ctx context.Context) domain.SelectionSet

	// Toggle flips membership of id, persists the result, and returns it.
	Toggle(ctx context.Context, id domain.AssetID) domain.SelectionSet

	// Contains reports whether id is currently selected.
	Contains(id domain.AssetID) bool

	// Selected returns the current selection.
	Selected() domain.SelectionSet

	// Reload re-reads durable storage after an external change.
	Reload(ctx context.Context) domain.SelectionSet

	// Watch returns a channel signalling external changes to the record,
	// or nil when the storage backend cannot report them.
	Watch(ctx context.Context) <-chan struct{}
}
