package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func committedCompendium(t *testing.T, host *fakeHost) map[string]any {
	t.Helper()
	require.Len(t, host.dispatched, 1)
	require.Len(t, host.dispatched[0].Settings, 1)
	setting := host.dispatched[0].Settings[0]
	require.Equal(t, CompendiumConfigurationKey, setting.Key)

	v, err := ParseValue(setting.Value)
	require.NoError(t, err)
	m, ok := AsObject(v)
	require.True(t, ok)
	return m
}

func TestCommit_CompendiumRecreatesFoldersFromSupportingData(t *testing.T) {
	host := newFakeHost()
	host.set(CompendiumConfigurationKey,
		map[string]any{"world.pack": map[string]any{"folder": "gone"}},
		`{"world.pack":{"folder":"gone"}}`)
	s := newTestSession(t, host, nil)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, []byte(`[
		{"key":"core.compendiumConfiguration","value":"{\"world.pack\":{\"folder\":\"f2\",\"locked\":true}}"},
		{"type":"_supportingDataType","value":{"compendiumFolders":[
			{"id":"f2","name":"Child","parentFolderId":"f1"},
			{"id":"f1","name":"Root"}
		]}}
	]`)))

	_, err := s.Commit(ctx)
	require.NoError(t, err)

	require.Len(t, host.created, 2)
	assert.Equal(t, Folder{ID: "f1", Name: "Root", Type: CompendiumFolderType}, host.created[0])
	assert.Equal(t, Folder{ID: "f2", Name: "Child", Type: CompendiumFolderType, ParentID: "f1"}, host.created[1])

	config := committedCompendium(t, host)
	assert.Equal(t, map[string]any{"folder": "f2", "locked": true}, config["world.pack"])
}

func TestCommit_CompendiumKeepsDestinationFolder(t *testing.T) {
	host := newFakeHost()
	host.set(CompendiumConfigurationKey,
		map[string]any{"world.pack": map[string]any{"folder": "mine"}},
		`{"world.pack":{"folder":"mine"}}`)
	host.folders["mine"] = &Folder{ID: "mine", Name: "Mine", Type: CompendiumFolderType}
	s := newTestSession(t, host, nil)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, []byte(`[
		{"key":"core.compendiumConfiguration","value":"{\"world.pack\":{\"folder\":\"theirs\",\"private\":true},\"world.other\":{\"folder\":\"live\"}}"}
	]`)))
	host.folders["live"] = &Folder{ID: "live", Name: "Live", Type: CompendiumFolderType}

	_, err := s.Commit(ctx)
	require.NoError(t, err)

	assert.Empty(t, host.created)
	config := committedCompendium(t, host)
	assert.Equal(t, map[string]any{"folder": "mine", "private": true}, config["world.pack"])
	assert.Equal(t, map[string]any{"folder": "live"}, config["world.other"])
}

func TestCommit_CompendiumUnresolvedReferenceIsKept(t *testing.T) {
	host := newFakeHost()
	s := newTestSession(t, host, nil)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, []byte(`[
		{"key":"core.compendiumConfiguration","value":"{\"world.pack\":{\"folder\":\"nowhere\"}}"}
	]`)))

	_, err := s.Commit(ctx)
	require.NoError(t, err)

	config := committedCompendium(t, host)
	assert.Equal(t, map[string]any{"folder": "nowhere"}, config["world.pack"])
	require.NotEmpty(t, s.Diagnostics())
	assert.Equal(t, StageCommit, s.Diagnostics()[len(s.Diagnostics())-1].Stage)
}

func TestCommit_CompendiumFallsBackToRawValue(t *testing.T) {
	host := newFakeHost()
	s := newTestSession(t, host, nil)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, []byte(`[
		{"key":"core.compendiumConfiguration","value":"[1,2]"},
		{"type":"_supportingDataType","value":{"compendiumFolders":[
			{"id":"a","name":"A","parentFolderId":"b"},
			{"id":"b","name":"B","parentFolderId":"a"}
		]}}
	]`)))

	_, err := s.Commit(ctx)
	require.NoError(t, err)

	require.Len(t, host.dispatched, 1)
	assert.Equal(t, "[1,2]", host.dispatched[0].Settings[0].Value)
}

func TestFolderRepair_Cycle(t *testing.T) {
	host := newFakeHost()
	r := &folderRepair{
		host: host,
		snapshots: map[string]FolderSnapshot{
			"a": {ID: "a", Name: "A", ParentFolderID: "b"},
			"b": {ID: "b", Name: "B", ParentFolderID: "a"},
		},
		resolved: map[string]*Folder{},
	}

	_, err := r.ensure(context.Background(), "a", map[string]bool{})
	assert.ErrorIs(t, err, errFolderCycle)
	assert.Empty(t, host.created)
}
