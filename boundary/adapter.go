package boundary

import (
	"sync"

	"github.com/google/uuid"

	"github.com/icverimeter/svdb/engine"
	"github.com/icverimeter/svdb/flatlist"
	"github.com/icverimeter/svdb/logging"
)

// Handle identifies one open connection at the boundary. Handles are
// positive; 0 is never issued and addresses the adapter itself in LastError.
type Handle = uint32

type session struct {
	engine  *engine.Engine
	traceID string
	lastErr string // guarded by Adapter.mu
}

// Adapter owns the live-handle and result registries and dispatches every
// boundary entry point to the engine.
type Adapter struct {
	mu          sync.Mutex
	sessions    map[Handle]*session
	results     map[Handle]*Result
	nextSession Handle
	nextResult  Handle
	openErr     string
	log         logging.Logger
}

// NewAdapter creates an empty adapter. The logger is shared with every
// engine the adapter opens.
func NewAdapter(logger logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Adapter{
		sessions:    make(map[Handle]*session),
		results:     make(map[Handle]*Result),
		nextSession: 1,
		nextResult:  1,
		log:         logger,
	}
}

// session looks a handle up in the live registry. A miss is the null-handle
// case: closed, stale and never-issued handles are indistinguishable here,
// and none of them is ever dereferenced.
func (a *Adapter) session(h Handle) (*session, Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[h]
	if !ok {
		return nil, StatusNullHandle
	}
	return s, StatusOK
}

// fail records err as the session's retained diagnostic and flattens it to a
// status.
func (a *Adapter) fail(s *session, op string, err error) Status {
	a.mu.Lock()
	s.lastErr = err.Error()
	a.mu.Unlock()
	a.log.Error("session %s: %s: %v", s.traceID, op, err)
	return statusOf(err)
}

// Open opens the database file at path and returns a positive connection
// handle, or a negative status. The diagnostic for a failed open is retained
// for handle 0.
func (a *Adapter) Open(path string) int64 {
	eng, err := engine.Open(path, a.log)
	if err != nil {
		a.mu.Lock()
		a.openErr = err.Error()
		a.mu.Unlock()
		a.log.Error("open %s: %v", path, err)
		return int64(statusOf(err))
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	h := a.nextSession
	a.nextSession++
	a.sessions[h] = &session{
		engine:  eng,
		traceID: uuid.NewString(),
	}
	a.log.Debug("session %s: handle %d for %s", a.sessions[h].traceID, h, path)
	return int64(h)
}

// Close closes the connection and retires its handle. Exactly one Close per
// successful Open; a second Close on the same handle is a null-handle status.
func (a *Adapter) Close(h Handle) Status {
	a.mu.Lock()
	s, ok := a.sessions[h]
	if ok {
		delete(a.sessions, h)
	}
	a.mu.Unlock()

	if !ok {
		return StatusNullHandle
	}
	if err := s.engine.Close(); err != nil {
		a.log.Error("session %s: close: %v", s.traceID, err)
		return statusOf(err)
	}
	return StatusOK
}

// Execute runs an arbitrary SQL statement and discards any result rows.
func (a *Adapter) Execute(h Handle, query string) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.Execute(query); err != nil {
		return a.fail(s, "execute", err)
	}
	return StatusOK
}

// InsertRow decodes the flat column and value lists, inserts one row and
// returns the engine-assigned rowid (positive), or a negative status. A
// column/value arity mismatch is rejected before any SQL is built.
func (a *Adapter) InsertRow(h Handle, table, flatColumns, flatValues string) int64 {
	s, st := a.session(h)
	if st != StatusOK {
		return int64(st)
	}
	columns := flatlist.Split(flatColumns)
	values := flatlist.Split(flatValues)
	rowid, err := s.engine.InsertRow(table, columns, values)
	if err != nil {
		return int64(a.fail(s, "insert row", err))
	}
	return rowid
}

// DeleteRow deletes the row whose explicit id column equals id. Deleting an
// absent id is success with no effect.
func (a *Adapter) DeleteRow(h Handle, table string, id int64) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.DeleteRow(table, id); err != nil {
		return a.fail(s, "delete row", err)
	}
	return StatusOK
}

// GetRow fetches the row whose explicit id column equals id and returns a
// result handle owned by the caller.
func (a *Adapter) GetRow(h Handle, table string, id int64) int64 {
	s, st := a.session(h)
	if st != StatusOK {
		return int64(st)
	}
	fs, err := s.engine.GetRow(table, id)
	if err != nil {
		return int64(a.fail(s, "get row", err))
	}
	return int64(a.storeResult(resultFromFieldSet(fs)))
}

// GetRowByRowID fetches the row with the engine-native row identifier and
// returns a result handle owned by the caller.
func (a *Adapter) GetRowByRowID(h Handle, table string, rowid int64) int64 {
	s, st := a.session(h)
	if st != StatusOK {
		return int64(st)
	}
	fs, err := s.engine.GetRowByRowID(table, rowid)
	if err != nil {
		return int64(a.fail(s, "get row by rowid", err))
	}
	return int64(a.storeResult(resultFromFieldSet(fs)))
}

// GetAllRows snapshots the whole table and returns a result handle owned by
// the caller. An empty table is a valid result with zero rows.
func (a *Adapter) GetAllRows(h Handle, table string) int64 {
	s, st := a.session(h)
	if st != StatusOK {
		return int64(st)
	}
	snapshot, err := s.engine.FetchAll(table)
	if err != nil {
		return int64(a.fail(s, "get all rows", err))
	}
	return int64(a.storeResult(resultFromSnapshot(snapshot)))
}

// GetCell fetches one column of the row addressed by the engine-native
// rowid. A present cell that is SQL NULL yields StatusNullValue and an empty
// string.
func (a *Adapter) GetCell(h Handle, table string, rowid int64, column string) (string, Status) {
	s, st := a.session(h)
	if st != StatusOK {
		return "", st
	}
	cell, err := s.engine.GetCell(table, rowid, column)
	if err != nil {
		return "", a.fail(s, "get cell", err)
	}
	if !cell.Valid {
		return "", StatusNullValue
	}
	return cell.Text, StatusOK
}

// GetRowIDByColumnValue returns the engine-native rowid (positive) of the
// first row where column equals value, or a negative status.
func (a *Adapter) GetRowIDByColumnValue(h Handle, table, column, value string) int64 {
	s, st := a.session(h)
	if st != StatusOK {
		return int64(st)
	}
	rowid, err := s.engine.GetRowIDByColumnValue(table, column, value)
	if err != nil {
		return int64(a.fail(s, "get rowid by column value", err))
	}
	return rowid
}

// CreateTable creates a table from a verbatim column definition list.
func (a *Adapter) CreateTable(h Handle, name, columns string) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.CreateTable(name, columns); err != nil {
		return a.fail(s, "create table", err)
	}
	return StatusOK
}

// DropTable drops a table if it exists.
func (a *Adapter) DropTable(h Handle, name string) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.DropTable(name); err != nil {
		return a.fail(s, "drop table", err)
	}
	return StatusOK
}

// CreateIndex creates an index over table(column) if it does not exist.
func (a *Adapter) CreateIndex(h Handle, name, table, column string) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.CreateIndex(name, table, column); err != nil {
		return a.fail(s, "create index", err)
	}
	return StatusOK
}

// DropIndex drops an index if it exists.
func (a *Adapter) DropIndex(h Handle, name string) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.DropIndex(name); err != nil {
		return a.fail(s, "drop index", err)
	}
	return StatusOK
}

// Begin opens the session's single flat transaction.
func (a *Adapter) Begin(h Handle) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.Begin(); err != nil {
		return a.fail(s, "begin", err)
	}
	return StatusOK
}

// Commit commits the open transaction.
func (a *Adapter) Commit(h Handle) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.Commit(); err != nil {
		return a.fail(s, "commit", err)
	}
	return StatusOK
}

// Rollback discards the open transaction.
func (a *Adapter) Rollback(h Handle) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.Rollback(); err != nil {
		return a.fail(s, "rollback", err)
	}
	return StatusOK
}

// Vacuum rebuilds the database file.
func (a *Adapter) Vacuum(h Handle) Status {
	s, st := a.session(h)
	if st != StatusOK {
		return st
	}
	if err := s.engine.Vacuum(); err != nil {
		return a.fail(s, "vacuum", err)
	}
	return StatusOK
}

// TableExists returns 1 if a table with the given name exists, 0 if not, or
// a negative status.
func (a *Adapter) TableExists(h Handle, name string) int64 {
	s, st := a.session(h)
	if st != StatusOK {
		return int64(st)
	}
	exists, err := s.engine.TableExists(name)
	if err != nil {
		return int64(a.fail(s, "table exists", err))
	}
	if exists {
		return 1
	}
	return 0
}

// ReadSchema lists the database's tables and views as a two-column result
// (name, type) and returns a result handle owned by the caller.
func (a *Adapter) ReadSchema(h Handle) int64 {
	s, st := a.session(h)
	if st != StatusOK {
		return int64(st)
	}
	entries, err := s.engine.Schema()
	if err != nil {
		return int64(a.fail(s, "read schema", err))
	}
	rows := make([][]engine.Value, len(entries))
	for i, entry := range entries {
		rows[i] = []engine.Value{
			{Text: entry.Name, Valid: true},
			{Text: entry.Type, Valid: true},
		}
	}
	return int64(a.storeResult(&Result{
		columns: []string{"name", "type"},
		rows:    rows,
	}))
}

// LastError returns the retained diagnostic for the session's most recent
// failure, or for the most recent failed Open when h is 0. An unknown handle
// yields an empty string.
func (a *Adapter) LastError(h Handle) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if h == 0 {
		return a.openErr
	}
	s, ok := a.sessions[h]
	if !ok {
		return ""
	}
	return s.lastErr
}
