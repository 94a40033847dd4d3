// Package host projects the boundary adapter onto a WebAssembly guest. It
// builds a wazero host module named "svdb" whose exported functions take
// only scalars: connection and result handles, integers, and pointer/length
// pairs into guest memory for strings.
//
// String results are written into buffers the guest allocates through its
// own alloc_bytes export; the host stores the buffer address through a
// guest-supplied destination pointer and returns the byte length. The guest
// owns every such buffer and releases it with its free_bytes export, so no
// memory crosses the boundary without an explicit owner.
package host
