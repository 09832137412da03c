package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driven"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driving"
	"github.com/custodia-labs/assetdeck/internal/logger"
)

// Ensure SelectionStore implements the interface.
var _ driving.SelectionService = (*SelectionStore)(nil)

var selectionLog = logger.For("selection")

// SelectionStore owns the selected asset IDs and mirrors every change to a
// durable key-value slot under domain.SelectionKey.
//
// Toggle holds the lock across the in-memory update and the write, so
// writes reach storage in the same order as the toggles that produced them.
type SelectionStore struct {
	mu      sync.Mutex
	store   driven.KVStore
	current domain.SelectionSet
}

// NewSelectionStore creates a selection store over kv.
// The selection starts empty; call Restore to load the persisted value.
func NewSelectionStore(kv driven.KVStore) *SelectionStore {
	return &SelectionStore{
		store:   kv,
		current: domain.NewSelectionSet(),
	}
}

// Restore loads the persisted selection and makes it current.
// The lock is held across the read so a concurrent Toggle cannot be
// overwritten by a value read before it.
func (s *SelectionStore) Restore(ctx context.Context) domain.SelectionSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.load(ctx)
	if err != nil {
		// Missing and corrupt records both mean "nothing selected yet".
		if errors.Is(err, domain.ErrNotFound) {
			selectionLog.Debug("no persisted selection, starting empty")
		} else {
			selectionLog.Warn("ignoring persisted selection: %v", err)
		}
		set = domain.NewSelectionSet()
	} else {
		selectionLog.Debug("restored %d selected assets", set.Len())
	}

	s.current = set
	return set
}

// Reload re-reads durable storage. It behaves exactly like Restore.
func (s *SelectionStore) Reload(ctx context.Context) domain.SelectionSet {
	return s.Restore(ctx)
}

// Toggle flips membership of id and persists the new selection.
func (s *SelectionStore) Toggle(ctx context.Context, id domain.AssetID) domain.SelectionSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.current.Toggle(id)
	s.persist(ctx, s.current)
	return s.current
}

// Contains reports whether id is currently selected.
func (s *SelectionStore) Contains(id domain.AssetID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Contains(id)
}

// Selected returns the current selection.
func (s *SelectionStore) Selected() domain.SelectionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Watch returns change notifications when the store supports them.
func (s *SelectionStore) Watch(ctx context.Context) <-chan struct{} {
	w, ok := s.store.(driven.KVWatcher)
	if !ok {
		return nil
	}
	ch, err := w.Watch(ctx, domain.SelectionKey)
	if err != nil {
		selectionLog.Warn("watching %s: %v", domain.SelectionKey, err)
		return nil
	}
	return ch
}

// persist writes set to storage. Failures are logged and otherwise ignored:
// the in-memory selection stays authoritative for this session.
// Caller must hold s.mu.
func (s *SelectionStore) persist(ctx context.Context, set domain.SelectionSet) {
	data, err := EncodeSelection(set)
	if err != nil {
		selectionLog.Warn("encoding selection: %v", err)
		return
	}
	if err := s.store.Put(ctx, domain.SelectionKey, data); err != nil {
		selectionLog.Warn("persisting selection: %v", err)
		return
	}
	selectionLog.Debug("persisted %d selected assets", set.Len())
}

// Caller must hold s.mu.
func (s *SelectionStore) load(ctx context.Context) (domain.SelectionSet, error) {
	data, err := s.store.Get(ctx, domain.SelectionKey)
	if err != nil {
		return domain.SelectionSet{}, err
	}
	return DecodeSelection(data)
}

// EncodeSelection serialises a selection as a JSON array of strings.
func EncodeSelection(set domain.SelectionSet) ([]byte, error) {
	return json.Marshal(set.Strings())
}

// DecodeSelection parses a persisted selection.
// Empty input, JSON null, and anything other than an array of strings
// (including null elements) are reported as domain.ErrCorruptRecord.
// Duplicate IDs are collapsed.
func DecodeSelection(data []byte) (domain.SelectionSet, error) {
	var raw []*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.SelectionSet{}, fmt.Errorf("%w: %v", domain.ErrCorruptRecord, err)
	}
	if raw == nil {
		return domain.SelectionSet{}, fmt.Errorf("%w: not an array", domain.ErrCorruptRecord)
	}
	ids := make([]domain.AssetID, len(raw))
	for i, v := range raw {
		if v == nil {
			return domain.SelectionSet{}, fmt.Errorf("%w: null at index %d", domain.ErrCorruptRecord, i)
		}
		ids[i] = domain.AssetID(*v)
	}
	return domain.NewSelectionSet(ids...), nil
}
