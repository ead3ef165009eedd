package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client", "settings.json")

	local, err := NewLocalStorage(path)
	require.NoError(t, err)
	_, ok := local.Get("mod.client")
	assert.False(t, ok)

	require.NoError(t, local.Set("mod.client", `"dark"`))

	reopened, err := NewLocalStorage(path)
	require.NoError(t, err)
	v, ok := reopened.Get("mod.client")
	assert.True(t, ok)
	assert.Equal(t, `"dark"`, v)
	assert.Equal(t, map[string]string{"mod.client": `"dark"`}, reopened.All())
}

func TestLocalStorage_Memory(t *testing.T) {
	local, err := NewLocalStorage("")
	require.NoError(t, err)
	require.NoError(t, local.Set("k", "v"))
	v, _ := local.Get("k")
	assert.Equal(t, "v", v)
}

func TestLocalStorage_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewLocalStorage(path)
	assert.Error(t, err)
}
