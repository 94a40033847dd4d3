package host

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/icverimeter/svdb/boundary"
	"github.com/icverimeter/svdb/logging"
)

// ModuleName is the import namespace the guest binds against.
const ModuleName = "svdb"

// Host exposes a boundary adapter to a WebAssembly guest.
type Host struct {
	adapter *boundary.Adapter
	log     logging.Logger
}

// New creates a Host over the given adapter.
func New(adapter *boundary.Adapter, logger logging.Logger) *Host {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Host{adapter: adapter, log: logger}
}

// Instantiate registers the svdb host module with the runtime. It must be
// called before the guest module is instantiated.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) error {
	_, err := r.NewHostModuleBuilder(ModuleName).
		NewFunctionBuilder().WithFunc(h.open).Export("svdb_open").
		NewFunctionBuilder().WithFunc(h.close).Export("svdb_close").
		NewFunctionBuilder().WithFunc(h.execute).Export("svdb_execute_query").
		NewFunctionBuilder().WithFunc(h.insertRow).Export("svdb_insert_row").
		NewFunctionBuilder().WithFunc(h.deleteRow).Export("svdb_delete_row").
		NewFunctionBuilder().WithFunc(h.getRow).Export("svdb_get_row").
		NewFunctionBuilder().WithFunc(h.getRowByRowID).Export("svdb_get_row_by_rowid").
		NewFunctionBuilder().WithFunc(h.getAllRows).Export("svdb_get_all_rows").
		NewFunctionBuilder().WithFunc(h.getCell).Export("svdb_get_cell_value").
		NewFunctionBuilder().WithFunc(h.getRowIDByColumnValue).Export("svdb_get_rowid_by_column_value").
		NewFunctionBuilder().WithFunc(h.createTable).Export("svdb_create_table").
		NewFunctionBuilder().WithFunc(h.dropTable).Export("svdb_drop_table").
		NewFunctionBuilder().WithFunc(h.createIndex).Export("svdb_create_index").
		NewFunctionBuilder().WithFunc(h.dropIndex).Export("svdb_drop_index").
		NewFunctionBuilder().WithFunc(h.begin).Export("svdb_begin_transaction").
		NewFunctionBuilder().WithFunc(h.commit).Export("svdb_commit_transaction").
		NewFunctionBuilder().WithFunc(h.rollback).Export("svdb_rollback_transaction").
		NewFunctionBuilder().WithFunc(h.vacuum).Export("svdb_vacuum").
		NewFunctionBuilder().WithFunc(h.tableExists).Export("svdb_table_exists").
		NewFunctionBuilder().WithFunc(h.readSchema).Export("svdb_read_schema").
		NewFunctionBuilder().WithFunc(h.lastError).Export("svdb_last_error").
		NewFunctionBuilder().WithFunc(h.resultRowCount).Export("svdb_result_row_count").
		NewFunctionBuilder().WithFunc(h.resultColumnCount).Export("svdb_result_column_count").
		NewFunctionBuilder().WithFunc(h.resultColumnName).Export("svdb_result_column_name").
		NewFunctionBuilder().WithFunc(h.resultValue).Export("svdb_result_value").
		NewFunctionBuilder().WithFunc(h.freeResult).Export("svdb_free_result").
		Instantiate(ctx)
	if err != nil {
		return fmt.Errorf("instantiate host module %q: %w", ModuleName, err)
	}
	return nil
}

func (h *Host) open(ctx context.Context, m api.Module, pathOff, pathLen uint32) int64 {
	path := readString(m, pathOff, pathLen)
	return h.adapter.Open(path)
}

func (h *Host) close(ctx context.Context, m api.Module, conn uint32) int32 {
	return h.adapter.Close(conn)
}

func (h *Host) execute(ctx context.Context, m api.Module, conn, sqlOff, sqlLen uint32) int32 {
	return h.adapter.Execute(conn, readString(m, sqlOff, sqlLen))
}

func (h *Host) insertRow(ctx context.Context, m api.Module, conn, tableOff, tableLen, colsOff, colsLen, valsOff, valsLen uint32) int64 {
	return h.adapter.InsertRow(conn,
		readString(m, tableOff, tableLen),
		readString(m, colsOff, colsLen),
		readString(m, valsOff, valsLen))
}

func (h *Host) deleteRow(ctx context.Context, m api.Module, conn, tableOff, tableLen uint32, id int64) int32 {
	return h.adapter.DeleteRow(conn, readString(m, tableOff, tableLen), id)
}

func (h *Host) getRow(ctx context.Context, m api.Module, conn, tableOff, tableLen uint32, id int64) int64 {
	return h.adapter.GetRow(conn, readString(m, tableOff, tableLen), id)
}

func (h *Host) getRowByRowID(ctx context.Context, m api.Module, conn, tableOff, tableLen uint32, rowid int64) int64 {
	return h.adapter.GetRowByRowID(conn, readString(m, tableOff, tableLen), rowid)
}

func (h *Host) getAllRows(ctx context.Context, m api.Module, conn, tableOff, tableLen uint32) int64 {
	return h.adapter.GetAllRows(conn, readString(m, tableOff, tableLen))
}

func (h *Host) getCell(ctx context.Context, m api.Module, conn, tableOff, tableLen uint32, rowid int64, colOff, colLen, destPtr uint32) int64 {
	value, st := h.adapter.GetCell(conn,
		readString(m, tableOff, tableLen), rowid, readString(m, colOff, colLen))
	if st != boundary.StatusOK {
		return int64(st)
	}
	return writeString(ctx, m, destPtr, value)
}

func (h *Host) getRowIDByColumnValue(ctx context.Context, m api.Module, conn, tableOff, tableLen, colOff, colLen, valOff, valLen uint32) int64 {
	return h.adapter.GetRowIDByColumnValue(conn,
		readString(m, tableOff, tableLen),
		readString(m, colOff, colLen),
		readString(m, valOff, valLen))
}

func (h *Host) createTable(ctx context.Context, m api.Module, conn, nameOff, nameLen, colsOff, colsLen uint32) int32 {
	return h.adapter.CreateTable(conn,
		readString(m, nameOff, nameLen), readString(m, colsOff, colsLen))
}

func (h *Host) dropTable(ctx context.Context, m api.Module, conn, nameOff, nameLen uint32) int32 {
	return h.adapter.DropTable(conn, readString(m, nameOff, nameLen))
}

func (h *Host) createIndex(ctx context.Context, m api.Module, conn, idxOff, idxLen, tableOff, tableLen, colOff, colLen uint32) int32 {
	return h.adapter.CreateIndex(conn,
		readString(m, idxOff, idxLen),
		readString(m, tableOff, tableLen),
		readString(m, colOff, colLen))
}

func (h *Host) dropIndex(ctx context.Context, m api.Module, conn, idxOff, idxLen uint32) int32 {
	return h.adapter.DropIndex(conn, readString(m, idxOff, idxLen))
}

func (h *Host) begin(ctx context.Context, m api.Module, conn uint32) int32 {
	return h.adapter.Begin(conn)
}

func (h *Host) commit(ctx context.Context, m api.Module, conn uint32) int32 {
	return h.adapter.Commit(conn)
}

func (h *Host) rollback(ctx context.Context, m api.Module, conn uint32) int32 {
	return h.adapter.Rollback(conn)
}

func (h *Host) vacuum(ctx context.Context, m api.Module, conn uint32) int32 {
	return h.adapter.Vacuum(conn)
}

func (h *Host) tableExists(ctx context.Context, m api.Module, conn, nameOff, nameLen uint32) int32 {
	return int32(h.adapter.TableExists(conn, readString(m, nameOff, nameLen)))
}

func (h *Host) readSchema(ctx context.Context, m api.Module, conn uint32) int64 {
	return h.adapter.ReadSchema(conn)
}

func (h *Host) lastError(ctx context.Context, m api.Module, conn, destPtr uint32) int64 {
	return writeString(ctx, m, destPtr, h.adapter.LastError(conn))
}

func (h *Host) resultRowCount(ctx context.Context, m api.Module, res uint32) int64 {
	return h.adapter.ResultRowCount(res)
}

func (h *Host) resultColumnCount(ctx context.Context, m api.Module, res uint32) int64 {
	return h.adapter.ResultColumnCount(res)
}

func (h *Host) resultColumnName(ctx context.Context, m api.Module, res, col, destPtr uint32) int64 {
	name, st := h.adapter.ResultColumnName(res, col)
	if st != boundary.StatusOK {
		return int64(st)
	}
	return writeString(ctx, m, destPtr, name)
}

func (h *Host) resultValue(ctx context.Context, m api.Module, res, row, col, destPtr uint32) int64 {
	value, st := h.adapter.ResultValue(res, row, col)
	if st != boundary.StatusOK {
		return int64(st)
	}
	return writeString(ctx, m, destPtr, value)
}

func (h *Host) freeResult(ctx context.Context, m api.Module, res uint32) int32 {
	return h.adapter.FreeResult(res)
}
