// Package world implements the destination world on top of a world database.
//
// Store satisfies reconcile.Host: it reads registered settings and their stored
// values, resolves users and folders, applies batched setting documents in a
// transaction and updates users. Client scoped settings live in a LocalStorage
// JSON file instead of the database.
//
// Store also satisfies reconcile.SelectionStore, persisting the import selection
// as the world setting "copy-environment.selection".
//
// # Privilege
//
// The store acts as the user named by Config.Actor. Only assistants and
// gamemasters may dispatch world setting changes; any other actor gets
// reconcile.ErrNotPrivileged.
//
// # Usage
//
//	local, _ := world.NewLocalStorage(cfg.World.ClientStoragePath)
//	store := world.NewStore(db, local, cfg.World.Actor, log)
//	session := reconcile.NewSession(store, selection, log, reconcile.Options{})
package world
