package world

// Config holds configuration for the destination world.
type Config struct {
	// Actor is the name of the user the tool acts as. Only assistants and
	// gamemasters may change world scoped settings.
	Actor string `mapstructure:"actor" default:"Gamemaster"`
	// ClientStoragePath is the JSON file holding client scoped settings.
	// Empty keeps them in memory.
	ClientStoragePath string `mapstructure:"client_storage_path" default:"client-settings.json"`
	// DiffLength bounds the rendered values of a difference. Zero disables it.
	DiffLength int `mapstructure:"diff_length" default:"0"`
	// SnapshotPrefix is the object storage prefix snapshots are archived under.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"snapshots"`
	// AutoMigrate creates missing world tables on startup.
	AutoMigrate bool `mapstructure:"auto_migrate" default:"false"`
}
