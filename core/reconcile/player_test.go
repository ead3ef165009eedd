package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bob() *User {
	return &User{
		ID:          "u1",
		Name:        "Bob",
		Color:       "#000000",
		Role:        1,
		Permissions: map[string]any{"FILES_BROWSE": true},
		Flags: map[string]any{
			"mod":  map[string]any{"a": 1.0, "b": 2.0},
			"keep": "live only",
		},
	}
}

func TestNewPlayerSetting_NotFound(t *testing.T) {
	host := newFakeHost()

	p, err := NewPlayerSetting(context.Background(), PlayerRecord{
		Name:  "Alice",
		Core:  PlayerCore{Color: "#fff", Role: 4.0},
		Flags: map[string]any{"x": 1.0},
	}, host, Options{})

	require.NoError(t, err)
	assert.True(t, p.PlayerNotFound)
	assert.True(t, p.HasChanges())
	assert.False(t, p.HasDataChanges())
	assert.Empty(t, p.CoreDifferences)
	assert.Empty(t, p.FlagDifferences)
	assert.Equal(t, []string{"Alice"}, p.FieldKeys())
}

func TestNewPlayerSetting_Differences(t *testing.T) {
	host := newFakeHost()
	host.users = []*User{bob()}

	p, err := NewPlayerSetting(context.Background(), PlayerRecord{
		Name: "Bob",
		Core: PlayerCore{
			Avatar:      "other.png",
			Color:       "#ffffff",
			Role:        1.0,
			Permissions: map[string]any{"FILES_BROWSE": true},
		},
		Flags: map[string]any{
			"mod": map[string]any{"a": 1.0, "b": 3.0},
			"new": true,
		},
	}, host, Options{})
	require.NoError(t, err)

	assert.False(t, p.PlayerNotFound)
	assert.True(t, p.HasChanges())
	assert.Equal(t, []string{FieldColor}, SortedKeys(p.CoreDifferences))
	assert.Equal(t, []string{"mod", "new"}, SortedKeys(p.FlagDifferences))

	mod := p.FlagDifferences["mod"]
	assert.Equal(t, map[string]any{"a": 1.0, "b": 2.0}, mod.OldValue)
	assert.Equal(t, map[string]any{"b": 3.0}, mod.NewValue)
	assert.True(t, IsUndefined(p.FlagDifferences["new"].OldValue))

	assert.Equal(t, []string{"Bob--color", "Bob--flag--mod", "Bob--flag--new"}, p.FieldKeys())
}

func TestNewPlayerSetting_NoChanges(t *testing.T) {
	host := newFakeHost()
	host.users = []*User{bob()}

	p, err := NewPlayerSetting(context.Background(), PlayerRecord{
		Name:  "Bob",
		Core:  PlayerCore{Color: "#000000", Role: 1.0, Permissions: map[string]any{"FILES_BROWSE": true}},
		Flags: map[string]any{"mod": map[string]any{"a": 1.0}},
	}, host, Options{})
	require.NoError(t, err)

	assert.False(t, p.HasChanges())
}

func TestNewPlayerSetting_FirstMatchWins(t *testing.T) {
	host := newFakeHost()
	first := bob()
	second := bob()
	second.ID = "u2"
	second.Color = "#ffffff"
	host.users = []*User{first, second}

	p, err := NewPlayerSetting(context.Background(), PlayerRecord{
		Name: "Bob",
		Core: PlayerCore{Color: "#ffffff", Role: 1.0, Permissions: map[string]any{"FILES_BROWSE": true}},
	}, host, Options{})
	require.NoError(t, err)

	assert.Equal(t, "u1", p.User().ID)
	assert.Contains(t, p.CoreDifferences, FieldColor)
}

func TestPlayerSetting_Update(t *testing.T) {
	host := newFakeHost()
	host.users = []*User{bob()}

	flags := map[string]any{"mod": map[string]any{"a": 1.0, "b": 3.0}}
	p, err := NewPlayerSetting(context.Background(), PlayerRecord{
		Name:  "Bob",
		Core:  PlayerCore{Color: "#ffffff", Role: 2.0, Permissions: map[string]any{"FILES_BROWSE": true}},
		Flags: flags,
	}, host, Options{})
	require.NoError(t, err)

	all, err := p.Update(func(string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, map[string]any{FieldColor: "#ffffff", FieldRole: 2.0}, all.Fields)
	assert.Equal(t, map[string]any{"mod": map[string]any{"a": 1.0, "b": 3.0}}, all.Flags)

	// The payload must not alias the imported record.
	all.Flags["mod"].(map[string]any)["b"] = 99.0
	assert.Equal(t, 3.0, flags["mod"].(map[string]any)["b"])

	onlyRole, err := p.Update(func(key string) bool { return key == "Bob--role" })
	require.NoError(t, err)
	assert.Equal(t, map[string]any{FieldRole: 2.0}, onlyRole.Fields)
	assert.Nil(t, onlyRole.Flags)

	none, err := p.Update(func(string) bool { return false })
	require.NoError(t, err)
	assert.True(t, none.IsEmpty())
}

type failingReader struct{ *fakeHost }

func (failingReader) FindUserByName(context.Context, string) (*User, error) {
	return nil, errors.New("boom")
}

func TestNewPlayerSetting_LookupError(t *testing.T) {
	_, err := NewPlayerSetting(context.Background(), PlayerRecord{Name: "Bob"}, failingReader{newFakeHost()}, Options{})
	assert.Error(t, err)
}

func TestNewPlayerSetting_PartialCoreLeavesOtherFields(t *testing.T) {
	host := newFakeHost()
	host.users = []*User{bob()}

	rec, err := DecodeRecord([]byte(`{"name":"Bob","core":{"color":"#ffffff","role":null}}`))
	require.NoError(t, err)

	p, err := NewPlayerSetting(context.Background(), *rec.Player, host, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{FieldColor}, SortedKeys(p.CoreDifferences))
	assert.Equal(t, []string{"Bob--color"}, p.FieldKeys())

	update, err := p.Update(func(string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, map[string]any{FieldColor: "#ffffff"}, update.Fields)
}
