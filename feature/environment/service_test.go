package environment

import (
	"context"
	"testing"
	"time"

	"copy-environment/core/reconcile"
	"copy-environment/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const importDoc = `[
	{"key":"mod.flag","value":"false"},
	{"key":"new.key","value":"1"},
	{"name":"Bob","core":{"color":"#ffffff","role":1,"permissions":{"FILES_BROWSE":true}},"flags":{"mod":{"a":2}}},
	{"name":"Alice","core":{"color":"#123456","role":1}}
]`

func TestService_ImportLifecycle(t *testing.T) {
	store, _ := setupWorld(t)
	svc := NewService(store, nil, zap.NewNop(), reconcile.Options{}, time.Minute)
	ctx := context.Background()

	imp, err := svc.StartImport(ctx, []byte(importDoc), "test")
	require.NoError(t, err)

	view, err := svc.View(imp.ID)
	require.NoError(t, err)
	require.Len(t, view.Groups, 2)
	assert.Equal(t, "mod", view.Groups[0].Name)
	assert.Equal(t, "new", view.Groups[1].Name)
	require.Len(t, view.Players, 1)
	require.Len(t, view.MissingPlayers, 1)

	view, err = svc.UpdateSelection(ctx, imp.ID, SelectionRequest{
		Groups: map[string]bool{"new": false},
		Keys:   map[string]bool{"Bob--color": false},
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.TriStateNone, view.Groups[1].State)
	assert.Equal(t, reconcile.TriStateSome, view.Players[0].State)

	result, err := svc.Commit(ctx, imp.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"mod.flag"}, result.Updated)
	assert.Empty(t, result.Created)
	assert.Equal(t, []string{"Bob"}, result.Players)
	assert.Equal(t, []reconcile.SkippedChange{{Key: "Alice", Reason: "player not found"}}, result.Skipped)

	raw, _, err := store.RawSetting(ctx, "mod.flag")
	require.NoError(t, err)
	assert.Equal(t, "false", raw)

	bob, err := store.FindUserByName(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, "#000000", bob.Color)
	assert.Equal(t, map[string]any{"mod": map[string]any{"a": 2.0}}, bob.Flags)

	// The selection survives into the next import of the same world.
	selection, err := store.LoadSelection(ctx)
	require.NoError(t, err)
	assert.Contains(t, selection, "new.key")
	assert.False(t, selection["new.key"])

	require.NoError(t, svc.Discard(imp.ID))
	_, err = svc.View(imp.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_NewImportReplacesSession(t *testing.T) {
	store, _ := setupWorld(t)
	svc := NewService(store, nil, nil, reconcile.Options{}, 0)
	ctx := context.Background()

	first, err := svc.StartImport(ctx, []byte(`[{"key":"mod.flag","value":"false"}]`), "a")
	require.NoError(t, err)

	_, err = svc.StartImport(ctx, []byte(`{"not":"an array"}`), "b")
	assert.ErrorIs(t, err, reconcile.ErrInvalidDocument)
	_, err = svc.View(first.ID)
	assert.NoError(t, err)

	second, err := svc.StartImport(ctx, []byte(`[]`), "c")
	require.NoError(t, err)
	_, err = svc.View(first.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.View(second.ID)
	assert.NoError(t, err)
}

func TestService_UnknownSelectionKey(t *testing.T) {
	store, _ := setupWorld(t)
	svc := NewService(store, nil, nil, reconcile.Options{}, 0)
	ctx := context.Background()

	imp, err := svc.StartImport(ctx, []byte(`[{"key":"mod.flag","value":"false"}]`), "a")
	require.NoError(t, err)

	_, err = svc.UpdateSelection(ctx, imp.ID, SelectionRequest{Keys: map[string]bool{"mod.nope": false}})
	assert.ErrorIs(t, err, reconcile.ErrUnknownField)
}

func TestService_CommitInvalidatesExport(t *testing.T) {
	store, _ := setupWorld(t)
	svc := NewService(store, nil, nil, reconcile.Options{}, time.Hour)
	ctx := context.Background()

	before, err := svc.Export(ctx)
	require.NoError(t, err)

	imp, err := svc.StartImport(ctx, []byte(`[{"key":"mod.flag","value":"false"}]`), "a")
	require.NoError(t, err)
	_, err = svc.Commit(ctx, imp.ID)
	require.NoError(t, err)

	after, err := svc.Export(ctx)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	assert.Equal(t, []reconcile.WorldRecord{{Key: "legacy.key", Value: "x"}}, after.Settings)
}

func TestService_ArchiveSnapshot(t *testing.T) {
	store, _ := setupWorld(t)
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "environments").Return(true, nil)
	client.On("PutObject", mock.Anything, "environments", mock.MatchedBy(func(name string) bool {
		return len(name) > len("snapshots/snapshot-") && name[:len("snapshots/snapshot-")] == "snapshots/snapshot-"
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	svc := NewService(store, NewArchive(client, "environments", "", "snapshots"), nil, reconcile.Options{}, 0)

	name, err := svc.ArchiveSnapshot(context.Background())
	require.NoError(t, err)
	assert.Contains(t, name, "snapshot-")
	client.AssertExpectations(t)
}

func TestService_ArchiveDisabled(t *testing.T) {
	store, _ := setupWorld(t)
	svc := NewService(store, nil, nil, reconcile.Options{}, 0)

	_, err := svc.ArchiveSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrArchiveDisabled)
	_, err = svc.StartImportFromArchive(context.Background(), "a.json")
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}
