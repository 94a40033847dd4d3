package host

import (
	"context"
	"log"

	"github.com/tetratelabs/wazero/api"

	"github.com/icverimeter/svdb/boundary"
)

// readString copies a string out of guest memory. An out-of-range read is a
// guest bug, not a recoverable condition.
func readString(m api.Module, offset, byteCount uint32) string {
	if byteCount == 0 {
		return ""
	}
	buf, ok := m.Memory().Read(offset, byteCount)
	if !ok {
		log.Panicf("Memory.Read(%d, %d) out of range", offset, byteCount)
	}
	return string(buf)
}

// writeString allocates a buffer inside the guest through its alloc_bytes
// export, copies s into it, stores the buffer address at destPtr and returns
// the byte length. The guest owns the buffer and frees it with free_bytes.
// An empty string writes address 0 and returns length 0 without allocating.
func writeString(ctx context.Context, m api.Module, destPtr uint32, s string) int64 {
	if len(s) == 0 {
		if !m.Memory().WriteUint32Le(destPtr, 0) {
			log.Panicf("Memory.WriteUint32Le(%d) out of range", destPtr)
		}
		return 0
	}

	alloc := m.ExportedFunction("alloc_bytes")
	if alloc == nil {
		return int64(boundary.StatusAllocationFailure)
	}
	result, err := alloc.Call(ctx, uint64(len(s)))
	if err != nil || len(result) != 1 {
		return int64(boundary.StatusAllocationFailure)
	}
	// alloc_bytes packs the guest-side handle in the high word and the
	// buffer address in the low word.
	ptr := uint32(result[0])

	if !m.Memory().Write(ptr, []byte(s)) {
		log.Panicf("Memory.Write(%d, %d bytes) out of range", ptr, len(s))
	}
	if !m.Memory().WriteUint32Le(destPtr, ptr) {
		log.Panicf("Memory.WriteUint32Le(%d) out of range", destPtr)
	}
	return int64(len(s))
}
