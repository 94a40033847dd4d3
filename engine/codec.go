package engine

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Value is one cell of a result row as text. A SQL NULL is represented by
// Valid=false, never by an empty string: the engine coerces every non-NULL
// value, numeric or otherwise, to its text form.
type Value struct {
	Text  string
	Valid bool
}

// FieldSet is one materialized result row: paired, equal-length column-name
// and value sequences. Ownership of a FieldSet passes to whoever requested
// it; the engine retains no reference after returning one.
type FieldSet struct {
	Columns []string
	Values  []Value
}

// Get returns the value for the named column and whether the column exists
// in the row.
func (fs *FieldSet) Get(column string) (Value, bool) {
	for i, name := range fs.Columns {
		if name == column {
			return fs.Values[i], true
		}
	}
	return Value{}, false
}

// scanValues reads the cursor's current row into freshly owned values. The
// caller supplies the column count so it is read from statement metadata
// once per statement, not once per row.
func scanValues(rows *sqlx.Rows, colCount int) ([]Value, error) {
	raw := make([]sql.NullString, colCount)
	ptrs := make([]any, colCount)
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	values := make([]Value, colCount)
	for i, ns := range raw {
		values[i] = Value{Text: ns.String, Valid: ns.Valid}
	}
	return values, nil
}

// fieldSetFromRows materializes the cursor's current row, duplicating column
// names and values into a caller-owned FieldSet.
func fieldSetFromRows(rows *sqlx.Rows) (*FieldSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	values, err := scanValues(rows, len(columns))
	if err != nil {
		return nil, err
	}
	return &FieldSet{Columns: columns, Values: values}, nil
}
