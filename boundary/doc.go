// Package boundary is the outward-facing surface of the gateway: every entry
// point takes and returns only scalars (integers, strings, handles) so it can
// be projected one-to-one onto a foreign call convention that cannot pass
// arrays or structs.
//
// Connections are addressed through validated handles issued by a live-handle
// registry; a stale or never-issued handle yields a null-handle status
// instead of undefined behavior. Multi-value results (rows, table snapshots)
// are returned as result handles whose contents the caller reads through
// accessor entry points and must explicitly release with FreeResult. Nothing
// at this boundary is reclaimed automatically.
//
// Success is status 0 or a positive identifier; every failure is a distinct
// negative status. The diagnostic text behind the most recent failure of a
// session is retained and retrievable with LastError.
package boundary
