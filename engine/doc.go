// Package engine executes SQL against a single SQLite database file and
// materializes result rows into owned field sets. It owns the full
// prepare/execute/close cycle for every statement: statements are never
// cached or shared across calls, and every statement is closed exactly once
// on every exit path.
//
// Structural SQL elements (table, column and index names) are interpolated
// verbatim into generated statements because they cannot be bound as
// parameters; only values are bound. Callers must therefore treat identifier
// arguments as trusted input. This is an explicit precondition of the
// interface, not a gap the engine papers over.
//
// An Engine is not safe for concurrent use; the gateway's call model is one
// in-flight operation per connection.
package engine
