package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".assetdeck", "config.toml"), store.Path())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[feed\nlimit ="), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("feed.base_url", "https://api.example.com/v2"))

	val, ok := store.Get("feed.base_url")
	assert.True(t, ok)
	assert.Equal(t, "https://api.example.com/v2", val)
	assert.Equal(t, "https://api.example.com/v2", store.GetString("feed.base_url"))
}

func TestConfigStore_WritesNestedTables(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("feed.limit", 50))
	require.NoError(t, store.Set("storage.backend", "file"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "[feed]")
	assert.Contains(t, content, "[storage]")
	assert.Contains(t, content, "limit = 50")
	assert.Regexp(t, `backend = ['"]file['"]`, content)
}

func TestConfigStore_Persistence(t *testing.T) {
	tmpDir := t.TempDir()

	first, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, first.Set("feed.limit", 25))
	require.NoError(t, first.Set("feed.requests_per_second", 0.5))
	require.NoError(t, first.Set("feed.api_key", "secret"))
	require.NoError(t, first.Set("debug", true))

	second, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, 25, second.GetInt("feed.limit"))
	assert.InDelta(t, 0.5, second.GetFloat("feed.requests_per_second"), 1e-9)
	assert.Equal(t, "secret", second.GetString("feed.api_key"))
	assert.True(t, second.GetBool("debug"))
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("feed.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := `
[feed]
base_url = "http://localhost:9000"
limit = 10
requests_per_second = 3

[storage]
backend = "memory"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", store.GetString("feed.base_url"))
	assert.Equal(t, 10, store.GetInt("feed.limit"))
	assert.InDelta(t, 3.0, store.GetFloat("feed.requests_per_second"), 1e-9)
	assert.Equal(t, "memory", store.GetString("storage.backend"))
}

func TestConfigStore_TypeMismatches(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("text", "hello"))

	assert.Zero(t, store.GetInt("text"))
	assert.Zero(t, store.GetFloat("text"))
	assert.False(t, store.GetBool("text"))
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.Zero(t, store.GetFloat("missing"))
}

func TestConfigStore_Load_MissingFileResets(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("feed.limit", 5))
	require.NoError(t, os.Remove(store.Path()))

	require.NoError(t, store.Load())

	_, ok := store.Get("feed.limit")
	assert.False(t, ok)
}

func TestConfigStore_Set_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("feed", "flat"))

	err = store.Set("feed.limit", 5)

	assert.Error(t, err)
	_, kept := store.Get("feed.limit")
	assert.False(t, kept, "rejected key is rolled back")
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"feed": map[string]any{
			"limit": int64(5),
			"auth":  map[string]any{"key": "k"},
		},
		"top": true,
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, map[string]any{
		"feed.limit":    int64(5),
		"feed.auth.key": "k",
		"top":           true,
	}, flat)
}

func TestNestMap_RoundTrip(t *testing.T) {
	flat := map[string]any{
		"feed.limit":      int64(5),
		"feed.base_url":   "http://x",
		"storage.backend": "file",
		"top":             true,
	}

	nested, err := nestMap(flat)
	require.NoError(t, err)

	assert.Equal(t, flat, flattenMap(nested, ""))
}
