package reconcile

import (
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Kind
	}{
		{"world", `{"key":"mod.flag","value":"true"}`, KindWorld},
		{"world with object value", `{"key":"mod.obj","value":{"a":1}}`, KindWorld},
		{"player", `{"name":"Alice","core":{"color":"#fff"},"flags":{}}`, KindPlayer},
		{"supporting data", `{"type":"_supportingDataType","value":{"compendiumFolders":[]}}`, KindSupportingData},
		{"supporting tag wins over key", `{"type":"_supportingDataType","key":"a.b","value":{}}`, KindSupportingData},
		{"world wins over name", `{"key":"a.b","value":"1","name":"Alice"}`, KindWorld},
		{"empty value falls through to player", `{"key":"a.b","value":"","name":"Alice"}`, KindPlayer},
		{"empty value", `{"key":"a.b","value":""}`, KindUnknown},
		{"no shape", `{"foo":1}`, KindUnknown},
		{"not an object", `42`, KindUnknown},
		{"null", `null`, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := DecodeRecord(json.RawMessage(tt.raw))
			assert.Equal(t, tt.kind, rec.Kind)
			if tt.kind == KindUnknown {
				assert.ErrorIs(t, err, ErrUnknownRecord)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeRecord_ObjectValueIsSerialized(t *testing.T) {
	rec, err := DecodeRecord(json.RawMessage(`{"key":"mod.obj","value":{"a":1}}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, rec.World.Value)
}

func TestDecodeRecord_Player(t *testing.T) {
	rec, err := DecodeRecord(json.RawMessage(`{"name":"Bob","core":{"avatar":"a.png","color":"#000","role":2,"permissions":{"FILES_BROWSE":true}},"flags":{"mod":{"x":1}}}`))
	require.NoError(t, err)

	require.NotNil(t, rec.Player)
	assert.Equal(t, "Bob", rec.Player.Name)
	assert.Equal(t, "#000", rec.Player.Core.Value(FieldColor))
	assert.Equal(t, 2.0, rec.Player.Core.Value(FieldRole))
	assert.Equal(t, map[string]any{"FILES_BROWSE": true}, rec.Player.Core.Value(FieldPermissions))
	assert.Equal(t, "a.png", rec.Player.Core.Value("avatar"))
	assert.Equal(t, map[string]any{"mod": map[string]any{"x": 1.0}}, rec.Player.Flags)
}

func TestSetting_HasChanges(t *testing.T) {
	host := newFakeHost()
	host.set("mod.flag", false, "false")
	ctx := context.Background()

	rec, _ := DecodeRecord(json.RawMessage(`{"key":"mod.flag","value":"true"}`))
	s, diag := NewSetting(ctx, rec, host, Options{})
	require.NotNil(t, s)
	assert.Nil(t, diag)
	assert.True(t, s.HasChanges())

	rec, _ = DecodeRecord(json.RawMessage(`{"type":"_supportingDataType","value":{"a":1}}`))
	s, diag = NewSetting(ctx, rec, host, Options{})
	require.NotNil(t, s)
	assert.Nil(t, diag)
	assert.False(t, s.HasChanges())

	rec, _ = DecodeRecord(json.RawMessage(`{"foo":1}`))
	s, diag = NewSetting(ctx, rec, host, Options{})
	assert.Nil(t, s)
	require.NotNil(t, diag)
	assert.Equal(t, StageParse, diag.Stage)
}
