package engine

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TableSnapshot is the materialized result of a whole-table retrieval. The
// result is rectangular: the column count is read from statement metadata
// once and applies to every row. Ownership passes to the caller.
type TableSnapshot struct {
	Columns []string
	Rows    [][]Value
}

// RowCount returns the number of rows in the snapshot.
func (s *TableSnapshot) RowCount() int {
	return len(s.Rows)
}

// ColumnCount returns the number of columns in the snapshot.
func (s *TableSnapshot) ColumnCount() int {
	return len(s.Columns)
}

// FieldSet materializes row i of the snapshot as an independent FieldSet.
func (s *TableSnapshot) FieldSet(i int) *FieldSet {
	columns := make([]string, len(s.Columns))
	copy(columns, s.Columns)
	values := make([]Value, len(s.Rows[i]))
	copy(values, s.Rows[i])
	return &FieldSet{Columns: columns, Values: values}
}

// FetchAll retrieves every row of table in a single pass, growing the result
// dynamically. Callers that need the row count before reading ask the
// snapshot afterward; the table is never queried twice. An empty table yields
// a snapshot with zero rows and the table's column count.
func (e *Engine) FetchAll(table string) (*TableSnapshot, error) {
	const op = "fetch all"
	if err := e.live(op); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s;", table)
	e.log.Debug("fetching all rows: %s", query)

	stmt, err := sqlx.Preparex(e.preparer(), query)
	if err != nil {
		return nil, newError(KindPrepare, op, query, err)
	}
	defer stmt.Close()

	rows, err := stmt.Queryx()
	if err != nil {
		return nil, classifyExec(op, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, newError(KindStep, op, "cannot read column metadata", err)
	}

	snapshot := &TableSnapshot{Columns: columns, Rows: [][]Value{}}
	for rows.Next() {
		values, err := scanValues(rows, len(columns))
		if err != nil {
			return nil, newError(KindAllocation, op, "cannot materialize row", err)
		}
		snapshot.Rows = append(snapshot.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(KindStep, op, query, err)
	}
	return snapshot, nil
}
