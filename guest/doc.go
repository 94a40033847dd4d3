// Package guest is the in-guest SDK for simulation code compiled to
// WebAssembly (GOOS=wasip1). It binds the svdb host module's scalar imports
// and exposes them as ordinary Go calls, and it exports the alloc_bytes and
// free_bytes functions the host uses to hand string results back through
// guest-owned buffers.
//
// The package mirrors the boundary's integer status contract: zero or a
// positive identifier is success, each failure class is a distinct negative
// code. It deliberately does not depend on the host-side packages, which
// cannot be compiled for wasip1.
package guest
