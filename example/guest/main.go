// An example simulation guest. It records a few register writes in a table,
// reads one back through both addressing schemes and prints what it finds.
// The guest logic lives in sim.go and is only built for wasip1.
//
// Build with:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o sim.wasm ./example/guest
//
// and run under the host:
//
//	svdbhost --wasm sim.wasm --db regs.db
package main

// The host drives the guest through its exported run function; main is only
// here to satisfy the linker.
func main() {}
