// Package models contains the GORM models of a world database.
//
// The tables mirror the documents the reconcile engine reads and writes:
//
//   - settings: stored world setting values, keyed by "namespace.key"
//   - setting_configs: setting registrations with scope and default value
//   - users: user accounts with JSON encoded permissions and flags
//   - folders: folder documents, including compendium folders
//   - packages: the installed core, system and modules
//
// The integrity feature reflects over these models to verify the live schema.
package models
