package reconcile

import (
	"context"
	"maps"
)

// fakeHost is an in-memory destination world.
type fakeHost struct {
	values     map[string]any
	raw        map[string]string
	scopes     map[string]Scope
	users      []*User
	folders    map[string]*Folder
	privileged bool

	local       map[string]string
	dispatched  []DocumentChange
	userUpdates map[string][]UserUpdate
	created     []Folder

	dispatchErr   error
	updateUserErr error
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		values:      make(map[string]any),
		raw:         make(map[string]string),
		scopes:      make(map[string]Scope),
		folders:     make(map[string]*Folder),
		privileged:  true,
		local:       make(map[string]string),
		userUpdates: make(map[string][]UserUpdate),
	}
}

// set registers a world setting with a live and stored value.
func (h *fakeHost) set(key string, value any, raw string) {
	h.values[key] = value
	h.raw[key] = raw
	h.scopes[key] = ScopeWorld
}

func (h *fakeHost) ReadSetting(_ context.Context, namespace, key string) (any, error) {
	v, ok := h.values[namespace+"."+key]
	if !ok {
		return nil, ErrNotRegistered
	}
	return v, nil
}

func (h *fakeHost) RawSetting(_ context.Context, key string) (string, bool, error) {
	v, ok := h.raw[key]
	return v, ok, nil
}

func (h *fakeHost) SettingScope(_ context.Context, key string) (Scope, bool) {
	s, ok := h.scopes[key]
	return s, ok
}

func (h *fakeHost) FindUserByName(_ context.Context, name string) (*User, error) {
	for _, u := range h.users {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}

func (h *fakeHost) FindFolder(_ context.Context, id string) (*Folder, error) {
	return h.folders[id], nil
}

func (h *fakeHost) WriteLocalSetting(_ context.Context, key, value string) error {
	h.local[key] = value
	return nil
}

func (h *fakeHost) DispatchSettings(_ context.Context, change DocumentChange) error {
	if h.dispatchErr != nil {
		return h.dispatchErr
	}
	h.dispatched = append(h.dispatched, change)
	for _, d := range change.Settings {
		h.raw[d.Key] = d.Value
	}
	return nil
}

func (h *fakeHost) UpdateUser(_ context.Context, user *User, update UserUpdate) error {
	if h.updateUserErr != nil {
		return h.updateUserErr
	}
	h.userUpdates[user.Name] = append(h.userUpdates[user.Name], update)
	return nil
}

func (h *fakeHost) CreateFolder(_ context.Context, folder Folder, keepID bool) (*Folder, error) {
	if !keepID {
		folder.ID = "generated-" + folder.Name
	}
	h.created = append(h.created, folder)
	f := folder
	h.folders[f.ID] = &f
	return &f, nil
}

func (h *fakeHost) IsPrivileged(context.Context) bool {
	return h.privileged
}

// memStore is an in-memory SelectionStore.
type memStore struct {
	values map[string]bool
	saves  int
}

func (m *memStore) LoadSelection(context.Context) (map[string]bool, error) {
	return maps.Clone(m.values), nil
}

func (m *memStore) SaveSelection(_ context.Context, selection map[string]bool) error {
	m.values = maps.Clone(selection)
	m.saves++
	return nil
}
