package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/assetdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/assetdeck/internal/core/domain"
)

// failingKV fails every operation.
type failingKV struct{}

func (failingKV) Get(context.Context, string) ([]byte, error) {
	return nil, domain.ErrStorageUnavailable
}

func (failingKV) Put(context.Context, string, []byte) error {
	return domain.ErrStorageUnavailable
}

func (failingKV) Delete(context.Context, string) error {
	return domain.ErrStorageUnavailable
}

// watchingKV is a memory store that also announces changes.
type watchingKV struct {
	*memory.KVStore
	ch  chan struct{}
	err error
}

func (w *watchingKV) Watch(context.Context, string) (<-chan struct{}, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.ch, nil
}

// gatedKV is a memory store whose reads block on gate once it is set.
type gatedKV struct {
	*memory.KVStore
	gate    chan struct{}
	reading chan struct{}
}

func (g *gatedKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := g.KVStore.Get(ctx, key)
	if g.gate != nil {
		close(g.reading)
		<-g.gate
	}
	return data, err
}

func ids(s domain.SelectionSet) []string {
	return s.Strings()
}

func TestSelectionStore_Restore_Missing(t *testing.T) {
	store := NewSelectionStore(memory.NewKVStore())

	set := store.Restore(context.Background())

	assert.True(t, set.IsEmpty())
	assert.True(t, store.Selected().IsEmpty())
}

func TestSelectionStore_Restore_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{oops"},
		{"object", `{"id":"bitcoin"}`},
		{"numbers", `[1,2]`},
		{"null", "null"},
		{"null element", `["bitcoin", null]`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := memory.NewKVStore()
			require.NoError(t, kv.Put(ctx, domain.SelectionKey, []byte(tt.data)))

			set := NewSelectionStore(kv).Restore(ctx)

			assert.True(t, set.IsEmpty())
		})
	}
}

func TestSelectionStore_Restore_StorageError(t *testing.T) {
	set := NewSelectionStore(failingKV{}).Restore(context.Background())
	assert.True(t, set.IsEmpty())
}

func TestSelectionStore_Restore_CollapsesDuplicates(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	require.NoError(t, kv.Put(ctx, domain.SelectionKey, []byte(`["bitcoin","ethereum","bitcoin"]`)))

	set := NewSelectionStore(kv).Restore(ctx)

	assert.Equal(t, []string{"bitcoin", "ethereum"}, ids(set))
}

func TestSelectionStore_Toggle_PersistsEveryChange(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	store := NewSelectionStore(kv)
	store.Restore(ctx)

	store.Toggle(ctx, "bitcoin")
	store.Toggle(ctx, "ethereum")

	raw, err := kv.Get(ctx, domain.SelectionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["bitcoin","ethereum"]`, string(raw))

	store.Toggle(ctx, "bitcoin")

	raw, err = kv.Get(ctx, domain.SelectionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["ethereum"]`, string(raw))
}

func TestSelectionStore_Toggle_EmptySelectionPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	store := NewSelectionStore(kv)

	store.Toggle(ctx, "bitcoin")
	store.Toggle(ctx, "bitcoin")

	raw, err := kv.Get(ctx, domain.SelectionKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestSelectionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()

	first := NewSelectionStore(kv)
	first.Restore(ctx)
	first.Toggle(ctx, "bitcoin")
	first.Toggle(ctx, "solana")
	first.Toggle(ctx, "dogecoin")

	second := NewSelectionStore(kv)
	set := second.Restore(ctx)

	assert.Equal(t, []string{"bitcoin", "solana", "dogecoin"}, ids(set))
	assert.True(t, second.Contains("solana"))
	assert.False(t, second.Contains("ethereum"))
}

func TestSelectionStore_Toggle_SwallowsWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := NewSelectionStore(failingKV{})
	store.Restore(ctx)

	set := store.Toggle(ctx, "bitcoin")

	assert.True(t, set.Contains("bitcoin"))
	assert.True(t, store.Contains("bitcoin"))
}

func TestSelectionStore_Toggle_Concurrent(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	store := NewSelectionStore(kv)

	var wg sync.WaitGroup
	for _, id := range []domain.AssetID{"a", "b", "c", "d", "e", "f"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Toggle(ctx, id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, store.Selected().Len())

	// The last write matches the in-memory state.
	reloaded := NewSelectionStore(kv).Restore(ctx)
	assert.True(t, reloaded.Equal(store.Selected()))
}

func TestSelectionStore_Reload_PicksUpExternalWrite(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	store := NewSelectionStore(kv)
	store.Restore(ctx)

	require.NoError(t, kv.Put(ctx, domain.SelectionKey, []byte(`["tether"]`)))
	set := store.Reload(ctx)

	assert.Equal(t, []string{"tether"}, ids(set))
	assert.True(t, store.Contains("tether"))
}

func TestSelectionStore_Reload_DoesNotDropConcurrentToggle(t *testing.T) {
	ctx := context.Background()
	kv := &gatedKV{KVStore: memory.NewKVStore()}
	require.NoError(t, kv.Put(ctx, domain.SelectionKey, []byte(`["a"]`)))
	store := NewSelectionStore(kv)
	store.Restore(ctx)

	kv.gate = make(chan struct{})
	kv.reading = make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		store.Reload(ctx)
	}()
	<-kv.reading

	// Toggle while the reload holds a value read before it.
	go func() {
		defer wg.Done()
		store.Toggle(ctx, "b")
	}()
	time.Sleep(20 * time.Millisecond)
	close(kv.gate)
	wg.Wait()

	kv.gate = nil
	store.Toggle(ctx, "c")

	assert.Equal(t, []string{"a", "b", "c"}, ids(store.Selected()))
	persisted, err := kv.KVStore.Get(ctx, domain.SelectionKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b","c"]`, string(persisted))
}

func TestSelectionStore_Watch(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, NewSelectionStore(memory.NewKVStore()).Watch(ctx))

	ch := make(chan struct{}, 1)
	watched := NewSelectionStore(&watchingKV{KVStore: memory.NewKVStore(), ch: ch})
	got := watched.Watch(ctx)
	require.NotNil(t, got)
	ch <- struct{}{}
	_, ok := <-got
	assert.True(t, ok)

	broken := NewSelectionStore(&watchingKV{KVStore: memory.NewKVStore(), err: errors.New("no inotify")})
	assert.Nil(t, broken.Watch(ctx))
}

func TestEncodeSelection(t *testing.T) {
	data, err := EncodeSelection(domain.NewSelectionSet("bitcoin", "ethereum"))
	require.NoError(t, err)
	assert.Equal(t, `["bitcoin","ethereum"]`, string(data))

	data, err = EncodeSelection(domain.NewSelectionSet())
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}

func TestDecodeSelection_Corrupt(t *testing.T) {
	_, err := DecodeSelection([]byte(`"bitcoin"`))
	assert.ErrorIs(t, err, domain.ErrCorruptRecord)

	set, err := DecodeSelection([]byte(`["bitcoin", null]`))
	assert.ErrorIs(t, err, domain.ErrCorruptRecord)
	assert.True(t, set.IsEmpty())
}
