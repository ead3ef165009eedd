// Package database handles database connections and schema inspection.
//
// It wraps GORM to open the world database with either the MySQL driver or,
// for local worlds and tests, SQLite.
//
// # Schema Inspection
//
// TableColumns returns the live columns of a table for both dialects. The integrity
// feature uses it to verify that the world tables match the models of feature/world.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.TableColumns(db, "settings")
package database
