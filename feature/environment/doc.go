// Package environment exports a world environment and imports snapshots into it.
//
// An export captures the non-default world settings, every user and the
// compendium folder tree, together with a summary of the core, system and
// active modules. Exports are served as downloadable documents and can be
// archived in object storage.
//
// An import loads a snapshot into a reconcile.Session. The service keeps one
// active session, addressed by a random id, whose selection is changed over
// HTTP before the selected differences are committed.
//
// # Routes
//
//	GET    /environment/summary
//	GET    /environment/summary/text
//	GET    /environment/export/:file
//	GET    /environment/archive
//	POST   /environment/archive
//	DELETE /environment/archive/:name
//	POST   /environment/import
//	GET    /environment/import/:id
//	PATCH  /environment/import/:id/selection
//	POST   /environment/import/:id/commit
//	DELETE /environment/import/:id
package environment
