package boundary

import "github.com/icverimeter/svdb/engine"

// Result is a materialized query result owned by the boundary caller. It is
// addressed through a result handle and lives until FreeResult; closing the
// connection it came from does not invalidate it.
type Result struct {
	columns []string
	rows    [][]engine.Value
}

func resultFromFieldSet(fs *engine.FieldSet) *Result {
	return &Result{
		columns: fs.Columns,
		rows:    [][]engine.Value{fs.Values},
	}
}

func resultFromSnapshot(s *engine.TableSnapshot) *Result {
	return &Result{
		columns: s.Columns,
		rows:    s.Rows,
	}
}

func (a *Adapter) storeResult(r *Result) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := a.nextResult
	a.nextResult++
	a.results[h] = r
	return h
}

func (a *Adapter) result(res Handle) (*Result, Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	r, ok := a.results[res]
	if !ok {
		return nil, StatusNullHandle
	}
	return r, StatusOK
}

// ResultRowCount returns the number of rows in a result, or a negative
// status.
func (a *Adapter) ResultRowCount(res Handle) int64 {
	r, st := a.result(res)
	if st != StatusOK {
		return int64(st)
	}
	return int64(len(r.rows))
}

// ResultColumnCount returns the number of columns in a result, or a negative
// status.
func (a *Adapter) ResultColumnCount(res Handle) int64 {
	r, st := a.result(res)
	if st != StatusOK {
		return int64(st)
	}
	return int64(len(r.columns))
}

// ResultColumnName returns the name of column col of a result.
func (a *Adapter) ResultColumnName(res Handle, col uint32) (string, Status) {
	r, st := a.result(res)
	if st != StatusOK {
		return "", st
	}
	if int(col) >= len(r.columns) {
		return "", StatusNotFound
	}
	return r.columns[col], StatusOK
}

// ResultValue returns the cell at (row, col) of a result. A SQL NULL cell
// yields StatusNullValue and an empty string.
func (a *Adapter) ResultValue(res Handle, row, col uint32) (string, Status) {
	r, st := a.result(res)
	if st != StatusOK {
		return "", st
	}
	if int(row) >= len(r.rows) || int(col) >= len(r.rows[row]) {
		return "", StatusNotFound
	}
	cell := r.rows[row][col]
	if !cell.Valid {
		return "", StatusNullValue
	}
	return cell.Text, StatusOK
}

// FreeResult releases a result. Exactly one FreeResult per result handle;
// freeing an unknown or already-freed handle is a null-handle status.
func (a *Adapter) FreeResult(res Handle) Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.results[res]; !ok {
		return StatusNullHandle
	}
	delete(a.results, res)
	return StatusOK
}
