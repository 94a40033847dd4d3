package engine

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/icverimeter/svdb/logging"
)

// Engine wraps one open SQLite database file. At most one transaction can be
// open at a time; while it is open, every statement routes through it.
type Engine struct {
	db   *sqlx.DB
	tx   *sqlx.Tx
	path string
	log  logging.Logger
}

// Open connects to the database file at path, creating it if necessary.
func Open(path string, logger logging.Logger) (*Engine, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, newError(KindStep, "open", fmt.Sprintf("cannot open database %q", path), err)
	}
	// One in-flight operation per connection; a second pooled connection
	// would put non-transactional statements outside an open transaction.
	db.SetMaxOpenConns(1)
	logger.Info("opened database %s", path)
	return &Engine{db: db, path: path, log: logger}, nil
}

// Path returns the database file path supplied at Open.
func (e *Engine) Path() string {
	return e.path
}

// Close releases the connection. An open transaction is rolled back first.
// Further use of the engine reports a null-handle failure.
func (e *Engine) Close() error {
	if e.db == nil {
		return newError(KindNullHandle, "close", "engine already closed", nil)
	}
	if e.tx != nil {
		_ = e.tx.Rollback()
		e.tx = nil
	}
	err := e.db.Close()
	e.db = nil
	e.log.Info("closed database %s", e.path)
	if err != nil {
		return newError(KindStep, "close", "", err)
	}
	return nil
}

// live rejects use-after-close before any statement is attempted.
func (e *Engine) live(op string) error {
	if e == nil || e.db == nil {
		return newError(KindNullHandle, op, "engine is closed", nil)
	}
	return nil
}

// preparer returns the statement source for the current state: the open
// transaction when there is one, the connection otherwise.
func (e *Engine) preparer() sqlx.Preparer {
	if e.tx != nil {
		return e.tx
	}
	return e.db
}

// Execute prepares query, steps through every result row and closes the
// statement. It is the generic execution path for statements whose rows the
// caller does not need. Values may be bound through args; identifiers cannot.
func (e *Engine) Execute(query string, args ...any) error {
	const op = "execute"
	if err := e.live(op); err != nil {
		return err
	}
	e.log.Debug("executing: %s", query)

	stmt, err := sqlx.Preparex(e.preparer(), query)
	if err != nil {
		return newError(KindPrepare, op, query, err)
	}
	defer stmt.Close()

	rows, err := stmt.Queryx(args...)
	if err != nil {
		return classifyExec(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		// Drain the cursor; the rows themselves are not materialized.
	}
	if err := rows.Err(); err != nil {
		return newError(KindStep, op, query, err)
	}
	return nil
}

// Begin opens a transaction. Transactions are flat: beginning while one is
// already open is a usage failure, not a nesting level.
func (e *Engine) Begin() error {
	const op = "begin"
	if err := e.live(op); err != nil {
		return err
	}
	if e.tx != nil {
		return newError(KindStep, op, "transaction already open", nil)
	}
	tx, err := e.db.Beginx()
	if err != nil {
		return newError(KindStep, op, "", err)
	}
	e.tx = tx
	e.log.Debug("transaction opened")
	return nil
}

// Commit commits the open transaction.
func (e *Engine) Commit() error {
	const op = "commit"
	if err := e.live(op); err != nil {
		return err
	}
	if e.tx == nil {
		return newError(KindStep, op, "no transaction open", nil)
	}
	err := e.tx.Commit()
	e.tx = nil
	if err != nil {
		return newError(KindStep, op, "", err)
	}
	e.log.Debug("transaction committed")
	return nil
}

// Rollback discards the open transaction.
func (e *Engine) Rollback() error {
	const op = "rollback"
	if err := e.live(op); err != nil {
		return err
	}
	if e.tx == nil {
		return newError(KindStep, op, "no transaction open", nil)
	}
	err := e.tx.Rollback()
	e.tx = nil
	if err != nil {
		return newError(KindStep, op, "", err)
	}
	e.log.Debug("transaction rolled back")
	return nil
}

// InTransaction reports whether a transaction is currently open.
func (e *Engine) InTransaction() bool {
	return e != nil && e.tx != nil
}

// CreateTable creates table name with the given column definition list if it
// does not already exist. Both arguments are interpolated verbatim.
func (e *Engine) CreateTable(name, columns string) error {
	return e.Execute(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", name, columns))
}

// DropTable removes table name if it exists.
func (e *Engine) DropTable(name string) error {
	return e.Execute(fmt.Sprintf("DROP TABLE IF EXISTS %s;", name))
}

// CreateIndex creates index name over table(column) if it does not already
// exist.
func (e *Engine) CreateIndex(name, table, column string) error {
	return e.Execute(fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s);", name, table, column))
}

// DropIndex removes index name if it exists.
func (e *Engine) DropIndex(name string) error {
	return e.Execute(fmt.Sprintf("DROP INDEX IF EXISTS %s;", name))
}

// Vacuum rebuilds the database file. SQLite rejects VACUUM inside a
// transaction; that rejection surfaces as a step failure.
func (e *Engine) Vacuum() error {
	return e.Execute("VACUUM;")
}

// TableExists reports whether a table with the given name exists. The name
// is bound as a value here, not interpolated, since it is compared rather
// than used structurally.
func (e *Engine) TableExists(name string) (bool, error) {
	const op = "table exists"
	if err := e.live(op); err != nil {
		return false, err
	}
	stmt, err := sqlx.Preparex(e.preparer(), "SELECT name FROM sqlite_master WHERE type='table' AND name = ?;")
	if err != nil {
		return false, newError(KindPrepare, op, "", err)
	}
	defer stmt.Close()

	rows, err := stmt.Queryx(name)
	if err != nil {
		return false, classifyExec(op, err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, newError(KindStep, op, "", err)
	}
	return exists, nil
}

// SchemaEntry is one table or view in the database schema.
type SchemaEntry struct {
	Name string `db:"name"`
	Type string `db:"type"`
}

// Schema lists the tables and views in the database, ordered by name.
func (e *Engine) Schema() ([]SchemaEntry, error) {
	const op = "schema"
	if err := e.live(op); err != nil {
		return nil, err
	}
	stmt, err := sqlx.Preparex(e.preparer(),
		"SELECT name, type FROM sqlite_master WHERE type IN ('table', 'view') ORDER BY name;")
	if err != nil {
		return nil, newError(KindPrepare, op, "", err)
	}
	defer stmt.Close()

	var entries []SchemaEntry
	if err := stmt.Select(&entries); err != nil {
		return nil, newError(KindStep, op, "", err)
	}
	return entries, nil
}
