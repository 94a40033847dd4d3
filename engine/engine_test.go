package engine

import (
	"path"
	"testing"

	"github.com/icverimeter/svdb/logging"
)

// setupEngine creates an engine over a temporary database file.
func setupEngine(t *testing.T) *Engine {
	t.Helper()
	dbPath := path.Join(t.TempDir(), "test.db")
	e, err := Open(dbPath, logging.Nop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		e.Close()
	})
	return e
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "fresh.db")
	e, err := Open(dbPath, logging.Nop())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if e.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", e.Path(), dbPath)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestUseAfterCloseIsRejected(t *testing.T) {
	e := setupEngine(t)
	if err := e.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	err := e.Execute("SELECT 1;")
	if err == nil {
		t.Fatal("Execute after Close succeeded")
	}
	if KindOf(err) != KindNullHandle {
		t.Errorf("Execute after Close classified as %v, want null handle", KindOf(err))
	}
	if err := e.Close(); err == nil || KindOf(err) != KindNullHandle {
		t.Errorf("double Close classified as %v, want null handle", KindOf(err))
	}
}

func TestExecutePrepareError(t *testing.T) {
	e := setupEngine(t)
	err := e.Execute("SELEKT broken syntax")
	if err == nil {
		t.Fatal("Execute accepted malformed SQL")
	}
	if KindOf(err) != KindPrepare {
		t.Errorf("malformed SQL classified as %v, want prepare error", KindOf(err))
	}
}

func TestInsertThenGetRowByRowID(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT, score TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}

	columns := []string{"name", "score"}
	values := []string{"alice", "97"}
	rowid, err := e.InsertRow("t", columns, values)
	if err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}
	if rowid <= 0 {
		t.Fatalf("InsertRow returned non-positive rowid %d", rowid)
	}

	fs, err := e.GetRowByRowID("t", rowid)
	if err != nil {
		t.Fatalf("GetRowByRowID returned error: %v", err)
	}
	for i, col := range columns {
		got, ok := fs.Get(col)
		if !ok {
			t.Fatalf("column %q missing from fetched row", col)
		}
		if !got.Valid || got.Text != values[i] {
			t.Errorf("column %q = %+v, want %q", col, got, values[i])
		}
	}
}

func TestInsertArityMismatchIssuesNoSQL(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "a TEXT, b TEXT, c TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}

	_, err := e.InsertRow("t", []string{"a", "b", "c"}, []string{"1", "2"})
	if err == nil {
		t.Fatal("InsertRow accepted mismatched column/value counts")
	}
	if KindOf(err) != KindArityMismatch {
		t.Errorf("mismatch classified as %v, want arity mismatch", KindOf(err))
	}

	snapshot, err := e.FetchAll("t")
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if snapshot.RowCount() != 0 {
		t.Errorf("table has %d rows after rejected insert, want 0", snapshot.RowCount())
	}
}

func TestFetchAllEmptyTable(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("empty_t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}

	snapshot, err := e.FetchAll("empty_t")
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if snapshot.RowCount() != 0 {
		t.Errorf("RowCount = %d, want 0", snapshot.RowCount())
	}
	if snapshot.ColumnCount() != 2 {
		t.Errorf("ColumnCount = %d, want 2", snapshot.ColumnCount())
	}
}

func TestFetchAllPreservesOrderAndNulls(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	if _, err := e.InsertRow("t", []string{"name"}, []string{"first"}); err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}
	if err := e.Execute("INSERT INTO t (name) VALUES (NULL);"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	snapshot, err := e.FetchAll("t")
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if snapshot.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2", snapshot.RowCount())
	}

	first := snapshot.FieldSet(0)
	name, _ := first.Get("name")
	if !name.Valid || name.Text != "first" {
		t.Errorf("row 0 name = %+v, want \"first\"", name)
	}

	second := snapshot.FieldSet(1)
	name, _ = second.Get("name")
	if name.Valid {
		t.Errorf("row 1 name = %+v, want NULL (Valid=false)", name)
	}
}

func TestDeleteRowNonExistentIsSuccess(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	if _, err := e.InsertRow("t", []string{"id", "name"}, []string{"1", "alice"}); err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}

	if err := e.DeleteRow("t", 999); err != nil {
		t.Fatalf("DeleteRow on absent id returned error: %v", err)
	}

	snapshot, err := e.FetchAll("t")
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if snapshot.RowCount() != 1 {
		t.Errorf("row count = %d after no-effect delete, want 1", snapshot.RowCount())
	}
}

func TestTableExistsLifecycle(t *testing.T) {
	e := setupEngine(t)

	exists, err := e.TableExists("t")
	if err != nil {
		t.Fatalf("TableExists returned error: %v", err)
	}
	if exists {
		t.Error("TableExists true before create")
	}

	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	exists, err = e.TableExists("t")
	if err != nil {
		t.Fatalf("TableExists returned error: %v", err)
	}
	if !exists {
		t.Error("TableExists false immediately after create")
	}

	if err := e.DropTable("t"); err != nil {
		t.Fatalf("DropTable returned error: %v", err)
	}
	exists, err = e.TableExists("t")
	if err != nil {
		t.Fatalf("TableExists returned error: %v", err)
	}
	if exists {
		t.Error("TableExists true immediately after drop")
	}
}

// Full lifecycle: create, insert, read a cell by rowid, delete by id, verify
// the row is gone.
func TestRowLifecycleScenario(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}

	rowid, err := e.InsertRow("t", []string{"id", "name"}, []string{"1", "alice"})
	if err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}
	if rowid != 1 {
		t.Fatalf("InsertRow returned rowid %d, want 1", rowid)
	}

	cell, err := e.GetCell("t", 1, "name")
	if err != nil {
		t.Fatalf("GetCell returned error: %v", err)
	}
	if !cell.Valid || cell.Text != "alice" {
		t.Fatalf("GetCell = %+v, want \"alice\"", cell)
	}

	if err := e.DeleteRow("t", 1); err != nil {
		t.Fatalf("DeleteRow returned error: %v", err)
	}

	_, err = e.GetRow("t", 1)
	if err == nil {
		t.Fatal("GetRow found a deleted row")
	}
	if !IsNotFound(err) {
		t.Errorf("GetRow after delete classified as %v, want not found", KindOf(err))
	}
}

// The explicit id column and the engine-native rowid are distinct addressing
// schemes; a row whose id differs from its rowid must be reachable through
// both, each by its own key.
func TestIDAndRowIDAreDistinct(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	rowid, err := e.InsertRow("t", []string{"id", "name"}, []string{"42", "bob"})
	if err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}
	if rowid != 1 {
		t.Fatalf("first insert got rowid %d, want 1", rowid)
	}

	if _, err := e.GetRow("t", 42); err != nil {
		t.Errorf("GetRow by explicit id 42 failed: %v", err)
	}
	if _, err := e.GetRowByRowID("t", 1); err != nil {
		t.Errorf("GetRowByRowID 1 failed: %v", err)
	}
	if _, err := e.GetRow("t", 1); !IsNotFound(err) {
		t.Errorf("GetRow by id 1 = %v, want not found", err)
	}
	if _, err := e.GetRowByRowID("t", 42); !IsNotFound(err) {
		t.Errorf("GetRowByRowID 42 = %v, want not found", err)
	}
}

func TestGetCellNull(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	if err := e.Execute("INSERT INTO t (name) VALUES (NULL);"); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	cell, err := e.GetCell("t", 1, "name")
	if err != nil {
		t.Fatalf("GetCell returned error: %v", err)
	}
	if cell.Valid {
		t.Errorf("NULL cell = %+v, want Valid=false", cell)
	}
	if cell.Text != "" {
		t.Errorf("NULL cell carries text %q", cell.Text)
	}
}

func TestGetRowIDByColumnValue(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	want, err := e.InsertRow("t", []string{"name"}, []string{"carol"})
	if err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}

	got, err := e.GetRowIDByColumnValue("t", "name", "carol")
	if err != nil {
		t.Fatalf("GetRowIDByColumnValue returned error: %v", err)
	}
	if got != want {
		t.Errorf("rowid = %d, want %d", got, want)
	}

	_, err = e.GetRowIDByColumnValue("t", "name", "nobody")
	if !IsNotFound(err) {
		t.Errorf("absent value classified as %v, want not found", KindOf(err))
	}
}

func TestTransactionsAreFlat(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}

	if err := e.Commit(); err == nil {
		t.Error("Commit outside a transaction succeeded")
	}
	if err := e.Rollback(); err == nil {
		t.Error("Rollback outside a transaction succeeded")
	}

	if err := e.Begin(); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if err := e.Begin(); err == nil {
		t.Error("nested Begin succeeded")
	}
	if !e.InTransaction() {
		t.Error("InTransaction false after Begin")
	}

	if _, err := e.InsertRow("t", []string{"name"}, []string{"temp"}); err != nil {
		t.Fatalf("InsertRow in transaction returned error: %v", err)
	}
	if err := e.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}

	snapshot, err := e.FetchAll("t")
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if snapshot.RowCount() != 0 {
		t.Errorf("rolled-back insert persisted %d rows", snapshot.RowCount())
	}

	if err := e.Begin(); err != nil {
		t.Fatalf("Begin after rollback returned error: %v", err)
	}
	if _, err := e.InsertRow("t", []string{"name"}, []string{"kept"}); err != nil {
		t.Fatalf("InsertRow in transaction returned error: %v", err)
	}
	if err := e.Commit(); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	snapshot, err = e.FetchAll("t")
	if err != nil {
		t.Fatalf("FetchAll returned error: %v", err)
	}
	if snapshot.RowCount() != 1 {
		t.Errorf("committed insert yielded %d rows, want 1", snapshot.RowCount())
	}
}

func TestVacuumInsideTransactionFails(t *testing.T) {
	e := setupEngine(t)
	if err := e.Begin(); err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	if err := e.Vacuum(); err == nil {
		t.Error("Vacuum inside a transaction succeeded")
	}
	if err := e.Rollback(); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	if err := e.Vacuum(); err != nil {
		t.Errorf("Vacuum outside a transaction returned error: %v", err)
	}
}

func TestIndexLifecycle(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, name TEXT"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	if err := e.CreateIndex("idx_name", "t", "name"); err != nil {
		t.Fatalf("CreateIndex returned error: %v", err)
	}
	// IF NOT EXISTS makes re-creation a no-op rather than an error.
	if err := e.CreateIndex("idx_name", "t", "name"); err != nil {
		t.Fatalf("repeated CreateIndex returned error: %v", err)
	}
	if err := e.DropIndex("idx_name"); err != nil {
		t.Fatalf("DropIndex returned error: %v", err)
	}
	if err := e.DropIndex("idx_name"); err != nil {
		t.Fatalf("repeated DropIndex returned error: %v", err)
	}
}

func TestSchemaListsTables(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("beta", "id INTEGER"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	if err := e.CreateTable("alpha", "id INTEGER"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}

	entries, err := e.Schema()
	if err != nil {
		t.Fatalf("Schema returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Schema returned %d entries, want 2", len(entries))
	}
	if entries[0].Name != "alpha" || entries[1].Name != "beta" {
		t.Errorf("Schema order = %q, %q; want alpha, beta", entries[0].Name, entries[1].Name)
	}
	for _, entry := range entries {
		if entry.Type != "table" {
			t.Errorf("entry %q has type %q, want table", entry.Name, entry.Type)
		}
	}
}

func TestNumericValuesCoercedToText(t *testing.T) {
	e := setupEngine(t)
	if err := e.CreateTable("t", "id INTEGER PRIMARY KEY, score INTEGER"); err != nil {
		t.Fatalf("CreateTable returned error: %v", err)
	}
	if _, err := e.InsertRow("t", []string{"score"}, []string{"1500"}); err != nil {
		t.Fatalf("InsertRow returned error: %v", err)
	}

	cell, err := e.GetCell("t", 1, "score")
	if err != nil {
		t.Fatalf("GetCell returned error: %v", err)
	}
	if !cell.Valid || cell.Text != "1500" {
		t.Errorf("integer cell = %+v, want text \"1500\"", cell)
	}
}
