package engine

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/icverimeter/svdb/flatlist"
)

// InsertRow inserts one row and returns the engine-assigned rowid. The
// column and value lists must be the same length; a mismatch is rejected
// before any SQL is built. Column names are interpolated, values are bound.
func (e *Engine) InsertRow(table string, columns, values []string) (int64, error) {
	const op = "insert row"
	if err := e.live(op); err != nil {
		return 0, err
	}
	if len(columns) != len(values) {
		return 0, newError(KindArityMismatch, op,
			fmt.Sprintf("%d columns but %d values", len(columns), len(values)), nil)
	}

	colClause, placeholderClause := flatlist.InsertClauses(columns)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, colClause, placeholderClause)
	e.log.Debug("inserting into %s: %s", table, query)

	stmt, err := sqlx.Preparex(e.preparer(), query)
	if err != nil {
		return 0, newError(KindPrepare, op, query, err)
	}
	defer stmt.Close()

	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	res, err := stmt.Exec(args...)
	if err != nil {
		return 0, classifyExec(op, err)
	}
	rowid, err := res.LastInsertId()
	if err != nil {
		return 0, newError(KindStep, op, "no rowid for inserted row", err)
	}
	return rowid, nil
}

// DeleteRow deletes the row whose explicit id column equals id. Deleting a
// row that does not exist is success with no effect.
func (e *Engine) DeleteRow(table string, id int64) error {
	return e.Execute(fmt.Sprintf("DELETE FROM %s WHERE id = ?;", table), id)
}

// GetRow fetches the row whose explicit id column equals id. The table's
// schema must define that column; this is distinct from rowid addressing.
func (e *Engine) GetRow(table string, id int64) (*FieldSet, error) {
	return e.fetchOne("get row", fmt.Sprintf("SELECT * FROM %s WHERE id = ?;", table), id)
}

// GetRowByRowID fetches the row with the engine-native row identifier rowid.
func (e *Engine) GetRowByRowID(table string, rowid int64) (*FieldSet, error) {
	return e.fetchOne("get row by rowid", fmt.Sprintf("SELECT * FROM %s WHERE rowid = ?;", table), rowid)
}

// fetchOne runs a single-row query and materializes the first result row.
// No row classifies as not found.
func (e *Engine) fetchOne(op, query string, args ...any) (*FieldSet, error) {
	if err := e.live(op); err != nil {
		return nil, err
	}
	stmt, err := sqlx.Preparex(e.preparer(), query)
	if err != nil {
		return nil, newError(KindPrepare, op, query, err)
	}
	defer stmt.Close()

	rows, err := stmt.Queryx(args...)
	if err != nil {
		return nil, classifyExec(op, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, newError(KindStep, op, query, err)
		}
		return nil, newError(KindNotFound, op, "no matching row", nil)
	}
	fs, err := fieldSetFromRows(rows)
	if err != nil {
		return nil, newError(KindAllocation, op, "cannot materialize row", err)
	}
	return fs, nil
}

// GetCell fetches a single column of the row addressed by the engine-native
// rowid. A present row with a NULL cell yields Valid=false; an absent row is
// not found.
func (e *Engine) GetCell(table string, rowid int64, column string) (Value, error) {
	const op = "get cell"
	fs, err := e.fetchOne(op, fmt.Sprintf("SELECT \"%s\" FROM %s WHERE rowid = ?;", column, table), rowid)
	if err != nil {
		return Value{}, err
	}
	return fs.Values[0], nil
}

// GetRowIDByColumnValue returns the engine-native rowid of the first row
// where column equals value. The value is bound; the column name is not.
func (e *Engine) GetRowIDByColumnValue(table, column, value string) (int64, error) {
	const op = "get rowid by column value"
	fs, err := e.fetchOne(op, fmt.Sprintf("SELECT rowid FROM %s WHERE %s = ?;", table, column), value)
	if err != nil {
		return 0, err
	}
	cell := fs.Values[0]
	if !cell.Valid {
		return 0, newError(KindStep, op, "rowid column was NULL", nil)
	}
	rowid, err := strconv.ParseInt(cell.Text, 10, 64)
	if err != nil {
		return 0, newError(KindStep, op, fmt.Sprintf("rowid %q is not an integer", cell.Text), err)
	}
	return rowid, nil
}
