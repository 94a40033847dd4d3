//go:build wasip1

package main

import (
	"fmt"
	"os"

	"github.com/icverimeter/svdb/guest"
)

//go:wasmexport run
func run() int32 {
	path := os.Getenv("SVDB_PATH")
	if path == "" {
		path = "sim.db"
	}

	conn, st := guest.Open(path)
	if st != guest.StatusOK {
		fmt.Printf("open %s failed: %d (%s)\n", path, st, guest.LastOpenError())
		return st
	}
	defer conn.Close()

	if st := conn.CreateTable("registers", "id INTEGER PRIMARY KEY, name TEXT, value TEXT"); st != guest.StatusOK {
		fmt.Printf("create table failed: %s\n", conn.LastError())
		return st
	}

	if st := conn.Begin(); st != guest.StatusOK {
		return st
	}
	for i, name := range []string{"CTRL", "STATUS", "DATA"} {
		rowid := conn.InsertRow("registers", "name,value", fmt.Sprintf("%s,%#04x", name, i*4))
		if rowid <= 0 {
			fmt.Printf("insert %s failed: %s\n", name, conn.LastError())
			conn.Rollback()
			return int32(rowid)
		}
	}
	if st := conn.Commit(); st != guest.StatusOK {
		return st
	}

	rowid := conn.GetRowIDByColumnValue("registers", "name", "STATUS")
	if rowid <= 0 {
		fmt.Printf("lookup failed: %s\n", conn.LastError())
		return int32(rowid)
	}
	value, st := conn.GetCell("registers", rowid, "value")
	if st != guest.StatusOK {
		return st
	}
	fmt.Printf("STATUS register holds %s\n", value)

	rows, st := conn.GetAllRows("registers")
	if st != guest.StatusOK {
		return st
	}
	defer rows.Free()
	fmt.Printf("%d registers recorded\n", rows.RowCount())
	return 0
}
