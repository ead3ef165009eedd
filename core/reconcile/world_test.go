package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKey(t *testing.T) {
	ns, name := SplitKey("core.compendiumConfiguration")
	assert.Equal(t, "core", ns)
	assert.Equal(t, "compendiumConfiguration", name)

	ns, name = SplitKey("mod.nested.key")
	assert.Equal(t, "mod", ns)
	assert.Equal(t, "nested.key", name)
}

func TestNewWorldSetting_Primitives(t *testing.T) {
	host := newFakeHost()
	host.set("mod.flag", false, "false")
	host.set("mod.count", 3, "3")
	ctx := context.Background()

	ws, diag := NewWorldSetting(ctx, WorldRecord{Key: "mod.flag", Value: "false"}, host, Options{})
	assert.Nil(t, diag)
	assert.Equal(t, "mod", ws.Group)
	assert.False(t, ws.HasChanges())

	ws, _ = NewWorldSetting(ctx, WorldRecord{Key: "mod.flag", Value: "true"}, host, Options{})
	assert.True(t, ws.HasChanges())
	assert.Equal(t, false, ws.Difference.OldValue)
	assert.Equal(t, true, ws.Difference.NewValue)

	ws, _ = NewWorldSetting(ctx, WorldRecord{Key: "mod.count", Value: "3"}, host, Options{})
	assert.False(t, ws.HasChanges())
}

func TestNewWorldSetting_KeyOrderIsIgnored(t *testing.T) {
	host := newFakeHost()
	host.set("mod.obj", map[string]any{"a": 1, "b": map[string]any{"c": true}}, `{"a":1,"b":{"c":true}}`)

	ws, diag := NewWorldSetting(context.Background(), WorldRecord{
		Key:   "mod.obj",
		Value: `{ "b": {"c": true},  "a": 1 }`,
	}, host, Options{})

	assert.Nil(t, diag)
	assert.False(t, ws.HasChanges())
}

func TestNewWorldSetting_NotRegistered(t *testing.T) {
	host := newFakeHost()

	ws, diag := NewWorldSetting(context.Background(), WorldRecord{Key: "other.x", Value: `"hello"`}, host, Options{})

	assert.Nil(t, diag)
	assert.True(t, ws.HasChanges())
	assert.True(t, IsUndefined(ws.Difference.OldValue))
	assert.Equal(t, "hello", ws.Difference.NewValue)
	assert.Equal(t, "undefined", ws.Difference.OldDisplay)
}

func TestNewWorldSetting_UnparseableFallsBackToRaw(t *testing.T) {
	host := newFakeHost()
	host.set("mod.text", "plain", "plain text")
	ctx := context.Background()

	ws, diag := NewWorldSetting(ctx, WorldRecord{Key: "mod.text", Value: "plain text"}, host, Options{})
	require.NotNil(t, diag)
	assert.Equal(t, "mod.text", diag.Subject)
	assert.False(t, ws.HasChanges())

	ws, diag = NewWorldSetting(ctx, WorldRecord{Key: "mod.text", Value: "other text"}, host, Options{})
	require.NotNil(t, diag)
	assert.True(t, ws.HasChanges())
	assert.Equal(t, "plain text", ws.Difference.OldValue)
}
