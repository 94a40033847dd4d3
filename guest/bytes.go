//go:build wasip1

package guest

import "unsafe"

// Buffers handed to the host stay registered here so the garbage collector
// cannot reclaim them while the host still references their address.
var (
	byteHandles    = map[uint32][]byte{}
	handleByOffset = map[uint32]uint32{}
	nextByteHandle uint32 = 1
)

// allocBytes reserves a guest-owned buffer for the host to fill. The return
// value packs the buffer handle in the high word and its address in the low
// word. A zero size is the empty buffer: offset 0, nothing registered,
// matching takeString's treatment of offset 0 as the empty string.
//
//go:wasmexport alloc_bytes
func allocBytes(size uint32) uint64 {
	if size == 0 {
		return 0
	}
	buf := make([]byte, size)
	handle := nextByteHandle
	nextByteHandle++
	offset := uint32(uintptr(unsafe.Pointer(&buf[0])))
	byteHandles[handle] = buf
	handleByOffset[offset] = handle
	return uint64(handle)<<32 | uint64(offset)
}

//go:wasmexport free_bytes
func freeBytes(handle uint32) {
	buf, ok := byteHandles[handle]
	if !ok {
		return
	}
	delete(handleByOffset, uint32(uintptr(unsafe.Pointer(&buf[0]))))
	delete(byteHandles, handle)
}

// takeString copies length bytes from a host-filled buffer into an owned
// string and releases the buffer. A zero offset is the empty string.
func takeString(offset, length uint32) string {
	if offset == 0 {
		return ""
	}
	s := string(unsafe.Slice((*byte)(unsafe.Pointer(uintptr(offset))), length))
	if handle, ok := handleByOffset[offset]; ok {
		freeBytes(handle)
	}
	return s
}
