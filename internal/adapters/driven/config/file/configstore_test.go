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

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("classifier.model", "qwen/qwen3-coder:free"))

	val, ok := store.Get("classifier.model")
	assert.True(t, ok)
	assert.Equal(t, "qwen/qwen3-coder:free", val)
	assert.Equal(t, "qwen/qwen3-coder:free", store.GetString("classifier.model"))
}

func TestConfigStore_Set_InvalidKey(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("", "x"))
	assert.Error(t, store.Set(".leading", "x"))
	assert.Error(t, store.Set("trailing.", "x"))
}

func TestConfigStore_TypedGetters_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("a", 42))
	require.NoError(t, store.Set("b", "text"))

	assert.Equal(t, "", store.GetString("a"))
	assert.Equal(t, 0, store.GetInt("b"))
	assert.False(t, store.GetBool("a"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_SaveWritesNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("classifier.provider", "openrouter"))
	require.NoError(t, store.Set("classifier.text_limit", 4000))
	require.NoError(t, store.Set("server.metrics", true))
	require.NoError(t, store.Save())

	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[classifier]")
	assert.Contains(t, string(data), "[server]")

	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	store1, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("classifier.provider", "ollama"))
	require.NoError(t, store1.Set("classifier.text_limit", 2000))
	require.NoError(t, store1.Set("server.metrics", false))
	require.NoError(t, store1.Save())

	store2, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "ollama", store2.GetString("classifier.provider"))
	assert.Equal(t, 2000, store2.GetInt("classifier.text_limit"))
	_, exists := store2.Get("server.metrics")
	assert.True(t, exists)
	assert.False(t, store2.GetBool("server.metrics"))
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[classifier]
provider = "anthropic"
timeout = "30s"

[store]
backend = "sqlite"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", store.GetString("classifier.provider"))
	assert.Equal(t, "30s", store.GetString("classifier.timeout"))
	assert.Equal(t, "sqlite", store.GetString("store.backend"))
}

func TestConfigStore_LoadInvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)

	assert.Error(t, err)
}

func TestConfigStore_SaveConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("server", "x"))
	require.NoError(t, store.Set("server.addr", ":3000"))

	assert.Error(t, store.Save())
}

func TestFlattenAndUnflatten(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{"b": int64(1), "c": map[string]any{"d": "x"}},
		"e": true,
	}

	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"a.b": int64(1), "a.c.d": "x", "e": true}, flat)

	back, err := unflattenMap(flat)
	require.NoError(t, err)
	assert.Equal(t, nested, back)
}
