// Package integrity checks the infrastructure copy-environment depends on.
//
// # Checks Provided
//
//   - Schema: compares the world database tables with the world models (columns, types).
//     Fixing runs the world migration.
//   - Storage: checks that the archive bucket and snapshot prefix exist.
//     Fixing creates the bucket and an empty prefix marker.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true).
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
