package environment

import (
	"testing"

	"copy-environment/core/database"
	"copy-environment/feature/world"
	"copy-environment/feature/world/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func parentID(id string) *string {
	return &id
}

// setupWorld returns a seeded in-memory world.
func setupWorld(t *testing.T) (*world.Store, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, world.Migrate(db))

	require.NoError(t, db.Create(&[]models.User{
		{ID: "gm00000000000001", Name: "Gamemaster", Color: "#ff0000", Role: world.RoleGamemaster, Permissions: "{}", Flags: "{}"},
		{ID: "pl00000000000001", Name: "Bob", Avatar: "bob.png", Color: "#000000", Role: world.RolePlayer,
			Permissions: `{"FILES_BROWSE":true}`, Flags: `{"mod":{"a":1}}`},
	}).Error)

	require.NoError(t, db.Create(&[]models.SettingConfig{
		{Key: "mod.flag", Namespace: "mod", Name: "flag", Scope: "world", DefaultValue: "false"},
		{Key: "mod.same", Namespace: "mod", Name: "same", Scope: "world", DefaultValue: `{"a":1,"b":2}`},
		{Key: "core.compendiumConfiguration", Namespace: "core", Name: "compendiumConfiguration", Scope: "world", DefaultValue: "{}"},
	}).Error)

	require.NoError(t, db.Create(&[]models.Setting{
		{Key: "mod.flag", Value: "true"},
		{Key: "mod.same", Value: `{"b":2,"a":1}`},
		{Key: "legacy.key", Value: "x"},
	}).Error)

	require.NoError(t, db.Create(&[]models.Folder{
		{ID: "f1", Name: "Root", Type: "Compendium"},
		{ID: "f2", Name: "Child", Type: "Compendium", ParentID: parentID("f1")},
		{ID: "a1", Name: "Heroes", Type: "Actor"},
	}).Error)

	require.NoError(t, db.Create(&[]models.Package{
		{ID: "core", Type: models.PackageCore, Version: "11.315", Active: true},
		{ID: "dnd5e", Type: models.PackageSystem, Title: "D&D", Version: "3.0.0", Author: "Atropos", Manifest: "https://example.org/system.json", Active: true},
		{ID: "b-mod", Type: models.PackageModule, Version: "1.0", Author: "B", Active: true},
		{ID: "a-mod", Type: models.PackageModule, Version: "2.1", Author: "A", Active: true},
		{ID: "off-mod", Type: models.PackageModule, Version: "0.1", Author: "C"},
	}).Error)

	return world.NewStore(db, nil, "Gamemaster", nil), db
}
