package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig writes a config file in a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const sampleConfig = `
[meili]
url = "http://meili:7700"
master_key = "secret"

[payload]
api_url = "http://cms:3000/api"
requests_per_second = 5

[webhook]
port = 4000
rebuild_on_start = false

[rebuild]
batch_size = 500
`

func TestNewConfigStore_Success(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, path, store.Path())
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".search-sync", "config.toml"), path)
}

func TestNewConfigStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	_, ok := store.Get("meili.url")
	assert.False(t, ok)
	assert.NoFileExists(t, path)
}

func TestConfigStore_NestedKeys(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://meili:7700", store.GetString("meili.url"))
	assert.Equal(t, "secret", store.GetString("meili.master_key"))
	assert.Equal(t, "http://cms:3000/api", store.GetString("payload.api_url"))
	assert.Equal(t, 5, store.GetInt("payload.requests_per_second"))
	assert.Equal(t, 4000, store.GetInt("webhook.port"))
	assert.Equal(t, 500, store.GetInt("rebuild.batch_size"))

	val, ok := store.Get("webhook.rebuild_on_start")
	assert.True(t, ok)
	assert.Equal(t, false, val)
}

func TestConfigStore_TypeMismatch(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Empty(t, store.GetString("webhook.port"))
	assert.Zero(t, store.GetInt("meili.url"))
	assert.False(t, store.GetBool("meili.url"))
	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, "verbose = true\n[webhook]\nrebuild_on_start = false\n"))
	require.NoError(t, err)

	assert.True(t, store.GetBool("verbose"))
	assert.False(t, store.GetBool("webhook.rebuild_on_start"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, ""))
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "[meili\nurl = ")

	_, err := NewConfigStore(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestNewConfigStore_ReadError(t *testing.T) {
	// A directory cannot be read as a file.
	_, err := NewConfigStore(t.TempDir())
	assert.Error(t, err)
}

func TestConfigStore_Load_PicksUpChanges(t *testing.T) {
	path := writeConfig(t, "[meili]\nurl = \"http://a:7700\"\n")
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[meili]\nurl = \"http://b:7700\"\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, "http://b:7700", store.GetString("meili.url"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.GetString("meili.url")
		}()
		go func() {
			defer wg.Done()
			_ = store.Load()
		}()
	}
	wg.Wait()

	assert.Equal(t, "http://meili:7700", store.GetString("meili.url"))
}

func TestFlattenMap(t *testing.T) {
	flat := flattenMap(map[string]any{
		"a": map[string]any{
			"b": int64(1),
			"c": map[string]any{"d": "x"},
		},
		"e": true,
	}, "")

	assert.Equal(t, map[string]any{
		"a.b":   int64(1),
		"a.c.d": "x",
		"e":     true,
	}, flat)
}
