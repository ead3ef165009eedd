// Package server holds the HTTP server configuration.
//
// The main application entry point (cmd/start.go) builds the Fiber app from it:
// the listen address and the body limit applied to uploaded snapshots.
//
// # Configuration
//
// The Config struct defines the HTTP port, the API key checked by
// core/middleware/auth, and the request body limit in megabytes.
package server
