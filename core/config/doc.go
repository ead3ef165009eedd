// Package config loads the copy-environment configuration.
//
// Values come from environment variables, optionally seeded from a .env file.
// Every field carries a `default` tag which is registered with Viper before
// the environment is read, so a bare environment yields a usable config.
//
// # Sections
//
//   - Server: HTTP port, API key and upload limit
//   - Database: world database driver and connection
//   - Storage: S3/MinIO endpoint and the snapshot bucket
//   - Log: level and encoding
//   - World: acting user, client settings file and snapshot prefix
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.World.Actor)
package config
