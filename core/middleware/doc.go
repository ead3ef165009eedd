// Package middleware groups the Fiber middleware of the HTTP server.
//
//   - auth: rejects requests without the configured X-API-Key.
//   - rayid: tags every request with a ray id, echoed in the response and in logs.
//
// Both are registered globally in the start command, before the features load.
package middleware
