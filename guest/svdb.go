//go:build wasip1

package guest

import "unsafe"

// Status codes, matching the wire values the boundary returns. Zero or a
// positive identifier is success; negative is failure.
const (
	StatusOK                int32 = 0
	StatusNullHandle        int32 = -1
	StatusPrepareError      int32 = -2
	StatusBindError         int32 = -3
	StatusStepError         int32 = -4
	StatusArityMismatch     int32 = -5
	StatusAllocationFailure int32 = -6
	StatusNotFound          int32 = -7
	StatusNullValue         int32 = -8
)

//go:wasmimport svdb svdb_open
func svdbOpen(pathOff, pathLen uint32) int64

//go:wasmimport svdb svdb_close
func svdbClose(conn uint32) int32

//go:wasmimport svdb svdb_execute_query
func svdbExecuteQuery(conn, sqlOff, sqlLen uint32) int32

//go:wasmimport svdb svdb_insert_row
func svdbInsertRow(conn, tableOff, tableLen, colsOff, colsLen, valsOff, valsLen uint32) int64

//go:wasmimport svdb svdb_delete_row
func svdbDeleteRow(conn, tableOff, tableLen uint32, id int64) int32

//go:wasmimport svdb svdb_get_row
func svdbGetRow(conn, tableOff, tableLen uint32, id int64) int64

//go:wasmimport svdb svdb_get_row_by_rowid
func svdbGetRowByRowID(conn, tableOff, tableLen uint32, rowid int64) int64

//go:wasmimport svdb svdb_get_all_rows
func svdbGetAllRows(conn, tableOff, tableLen uint32) int64

//go:wasmimport svdb svdb_get_cell_value
func svdbGetCellValue(conn, tableOff, tableLen uint32, rowid int64, colOff, colLen, destPtr uint32) int64

//go:wasmimport svdb svdb_get_rowid_by_column_value
func svdbGetRowIDByColumnValue(conn, tableOff, tableLen, colOff, colLen, valOff, valLen uint32) int64

//go:wasmimport svdb svdb_create_table
func svdbCreateTable(conn, nameOff, nameLen, colsOff, colsLen uint32) int32

//go:wasmimport svdb svdb_drop_table
func svdbDropTable(conn, nameOff, nameLen uint32) int32

//go:wasmimport svdb svdb_create_index
func svdbCreateIndex(conn, idxOff, idxLen, tableOff, tableLen, colOff, colLen uint32) int32

//go:wasmimport svdb svdb_drop_index
func svdbDropIndex(conn, idxOff, idxLen uint32) int32

//go:wasmimport svdb svdb_begin_transaction
func svdbBeginTransaction(conn uint32) int32

//go:wasmimport svdb svdb_commit_transaction
func svdbCommitTransaction(conn uint32) int32

//go:wasmimport svdb svdb_rollback_transaction
func svdbRollbackTransaction(conn uint32) int32

//go:wasmimport svdb svdb_vacuum
func svdbVacuum(conn uint32) int32

//go:wasmimport svdb svdb_table_exists
func svdbTableExists(conn, nameOff, nameLen uint32) int32

//go:wasmimport svdb svdb_read_schema
func svdbReadSchema(conn uint32) int64

//go:wasmimport svdb svdb_last_error
func svdbLastError(conn, destPtr uint32) int64

//go:wasmimport svdb svdb_result_row_count
func svdbResultRowCount(res uint32) int64

//go:wasmimport svdb svdb_result_column_count
func svdbResultColumnCount(res uint32) int64

//go:wasmimport svdb svdb_result_column_name
func svdbResultColumnName(res, col, destPtr uint32) int64

//go:wasmimport svdb svdb_result_value
func svdbResultValue(res, row, col, destPtr uint32) int64

//go:wasmimport svdb svdb_free_result
func svdbFreeResult(res uint32) int32

// strArg exposes a string's bytes to the host for the duration of a call.
func strArg(s string) (uint32, uint32) {
	if len(s) == 0 {
		return 0, 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.StringData(s)))), uint32(len(s))
}

func destAddr(dest *uint32) uint32 {
	return uint32(uintptr(unsafe.Pointer(dest)))
}

// Conn is an open database connection handle.
type Conn uint32

// Open opens the database file at path. On failure the returned status is
// negative and LastOpenError holds the diagnostic.
func Open(path string) (Conn, int32) {
	pOff, pLen := strArg(path)
	ret := svdbOpen(pOff, pLen)
	if ret < 0 {
		return 0, int32(ret)
	}
	return Conn(ret), StatusOK
}

// Close closes the connection. Exactly one Close per successful Open.
func (c Conn) Close() int32 {
	return svdbClose(uint32(c))
}

// Execute runs an arbitrary SQL statement, discarding any rows it produces.
func (c Conn) Execute(sql string) int32 {
	sOff, sLen := strArg(sql)
	return svdbExecuteQuery(uint32(c), sOff, sLen)
}

// InsertRow inserts one row from flat comma-joined column and value lists
// and returns the new rowid, or a negative status.
func (c Conn) InsertRow(table, flatColumns, flatValues string) int64 {
	tOff, tLen := strArg(table)
	cOff, cLen := strArg(flatColumns)
	vOff, vLen := strArg(flatValues)
	return svdbInsertRow(uint32(c), tOff, tLen, cOff, cLen, vOff, vLen)
}

// DeleteRow deletes the row whose explicit id column equals id.
func (c Conn) DeleteRow(table string, id int64) int32 {
	tOff, tLen := strArg(table)
	return svdbDeleteRow(uint32(c), tOff, tLen, id)
}

// GetRow fetches the row whose explicit id column equals id.
func (c Conn) GetRow(table string, id int64) (Result, int32) {
	tOff, tLen := strArg(table)
	ret := svdbGetRow(uint32(c), tOff, tLen, id)
	if ret < 0 {
		return 0, int32(ret)
	}
	return Result(ret), StatusOK
}

// GetRowByRowID fetches the row with the engine-native row identifier.
func (c Conn) GetRowByRowID(table string, rowid int64) (Result, int32) {
	tOff, tLen := strArg(table)
	ret := svdbGetRowByRowID(uint32(c), tOff, tLen, rowid)
	if ret < 0 {
		return 0, int32(ret)
	}
	return Result(ret), StatusOK
}

// GetAllRows snapshots the whole table.
func (c Conn) GetAllRows(table string) (Result, int32) {
	tOff, tLen := strArg(table)
	ret := svdbGetAllRows(uint32(c), tOff, tLen)
	if ret < 0 {
		return 0, int32(ret)
	}
	return Result(ret), StatusOK
}

// GetCell fetches one column of the row addressed by rowid. A SQL NULL cell
// comes back as StatusNullValue with an empty string.
func (c Conn) GetCell(table string, rowid int64, column string) (string, int32) {
	tOff, tLen := strArg(table)
	cOff, cLen := strArg(column)
	var dest uint32
	n := svdbGetCellValue(uint32(c), tOff, tLen, rowid, cOff, cLen, destAddr(&dest))
	if n < 0 {
		return "", int32(n)
	}
	return takeString(dest, uint32(n)), StatusOK
}

// GetRowIDByColumnValue returns the rowid of the first row where column
// equals value, or a negative status.
func (c Conn) GetRowIDByColumnValue(table, column, value string) int64 {
	tOff, tLen := strArg(table)
	cOff, cLen := strArg(column)
	vOff, vLen := strArg(value)
	return svdbGetRowIDByColumnValue(uint32(c), tOff, tLen, cOff, cLen, vOff, vLen)
}

// CreateTable creates a table from a verbatim column definition list.
func (c Conn) CreateTable(name, columns string) int32 {
	nOff, nLen := strArg(name)
	cOff, cLen := strArg(columns)
	return svdbCreateTable(uint32(c), nOff, nLen, cOff, cLen)
}

// DropTable drops a table if it exists.
func (c Conn) DropTable(name string) int32 {
	nOff, nLen := strArg(name)
	return svdbDropTable(uint32(c), nOff, nLen)
}

// CreateIndex creates an index over table(column).
func (c Conn) CreateIndex(name, table, column string) int32 {
	iOff, iLen := strArg(name)
	tOff, tLen := strArg(table)
	cOff, cLen := strArg(column)
	return svdbCreateIndex(uint32(c), iOff, iLen, tOff, tLen, cOff, cLen)
}

// DropIndex drops an index if it exists.
func (c Conn) DropIndex(name string) int32 {
	iOff, iLen := strArg(name)
	return svdbDropIndex(uint32(c), iOff, iLen)
}

// Begin opens the connection's single flat transaction.
func (c Conn) Begin() int32 { return svdbBeginTransaction(uint32(c)) }

// Commit commits the open transaction.
func (c Conn) Commit() int32 { return svdbCommitTransaction(uint32(c)) }

// Rollback discards the open transaction.
func (c Conn) Rollback() int32 { return svdbRollbackTransaction(uint32(c)) }

// Vacuum rebuilds the database file.
func (c Conn) Vacuum() int32 { return svdbVacuum(uint32(c)) }

// TableExists returns 1 if the table exists, 0 if not, negative on failure.
func (c Conn) TableExists(name string) int32 {
	nOff, nLen := strArg(name)
	return svdbTableExists(uint32(c), nOff, nLen)
}

// ReadSchema lists the database's tables and views as a two-column result
// (name, type).
func (c Conn) ReadSchema() (Result, int32) {
	ret := svdbReadSchema(uint32(c))
	if ret < 0 {
		return 0, int32(ret)
	}
	return Result(ret), StatusOK
}

// LastError returns the retained diagnostic for the connection's most
// recent failure.
func (c Conn) LastError() string {
	var dest uint32
	n := svdbLastError(uint32(c), destAddr(&dest))
	if n <= 0 {
		return ""
	}
	return takeString(dest, uint32(n))
}

// LastOpenError returns the diagnostic for the most recent failed Open.
func LastOpenError() string {
	var dest uint32
	n := svdbLastError(0, destAddr(&dest))
	if n <= 0 {
		return ""
	}
	return takeString(dest, uint32(n))
}

// Result is a caller-owned query result. It must be released with Free.
type Result uint32

// RowCount returns the number of rows, or a negative status.
func (r Result) RowCount() int64 { return svdbResultRowCount(uint32(r)) }

// ColumnCount returns the number of columns, or a negative status.
func (r Result) ColumnCount() int64 { return svdbResultColumnCount(uint32(r)) }

// ColumnName returns the name of column col.
func (r Result) ColumnName(col uint32) (string, int32) {
	var dest uint32
	n := svdbResultColumnName(uint32(r), col, destAddr(&dest))
	if n < 0 {
		return "", int32(n)
	}
	return takeString(dest, uint32(n)), StatusOK
}

// Value returns the cell at (row, col); a SQL NULL cell is StatusNullValue.
func (r Result) Value(row, col uint32) (string, int32) {
	var dest uint32
	n := svdbResultValue(uint32(r), row, col, destAddr(&dest))
	if n < 0 {
		return "", int32(n)
	}
	return takeString(dest, uint32(n)), StatusOK
}

// Free releases the result. Exactly one Free per result.
func (r Result) Free() int32 { return svdbFreeResult(uint32(r)) }
