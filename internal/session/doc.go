// Package session keeps triage state between CLI invocations.
//
// The Store holds per-directory marks (rating and rotation by photo ID) so a
// triage can be resumed after a rescan, and journals every relocation run with
// its per-photo outcomes. AcquireLock guards an input directory against a
// second concurrent session.
//
// When you change schema.sql, bump schemaVersion in schema.go; existing
// databases are then rejected with ErrSchemaMismatch.
package session
