package reconcile

import "context"

// Reader defines the read side of the destination world.
// The reconcile engine never talks to storage directly; a host implementation
// (see feature/world) decides how settings, users, and folders are persisted.
type Reader interface {
	// ReadSetting returns the parsed live value of namespace.key.
	// It returns ErrNotRegistered when no such setting is registered.
	ReadSetting(ctx context.Context, namespace, key string) (any, error)

	// RawSetting returns the stored serialized value of a world setting.
	// ok is false when no value has been stored for key yet.
	RawSetting(ctx context.Context, key string) (value string, ok bool, err error)

	// SettingScope returns the registered scope of key.
	// ok is false when the key is not registered.
	SettingScope(ctx context.Context, key string) (scope Scope, ok bool)

	// FindUserByName returns the first user whose name matches exactly, or nil.
	FindUserByName(ctx context.Context, name string) (*User, error)

	// FindFolder returns the folder with the given id, or nil.
	FindFolder(ctx context.Context, id string) (*Folder, error)
}

// Mutator defines the write side of the destination world.
type Mutator interface {
	// WriteLocalSetting persists a client-scoped value locally, without dispatch.
	WriteLocalSetting(ctx context.Context, key, value string) error

	// DispatchSettings sends one batched, privileged setting change.
	DispatchSettings(ctx context.Context, change DocumentChange) error

	// UpdateUser applies a partial update to a user.
	UpdateUser(ctx context.Context, user *User, update UserUpdate) error

	// CreateFolder creates a folder. When keepID is true the folder keeps folder.ID
	// so references to it keep resolving.
	CreateFolder(ctx context.Context, folder Folder, keepID bool) (*Folder, error)

	// IsPrivileged reports whether the acting user may dispatch world-scoped changes.
	IsPrivileged(ctx context.Context) bool
}

// Host is the full set of destination world collaborators a session needs.
type Host interface {
	Reader
	Mutator
}
