// SPDX-License-Identifier: Apache-2.0

package arena

// Offset is a byte position relative to the start of an arena.
type Offset int

// Nil is the null region. Alloc returns it on failure and Free ignores it.
const Nil Offset = -1

// Region describes a contiguous byte range inside an arena.
type Region struct {
	Off  Offset
	Size int
}

// End returns the offset one past the last byte of the region.
func (r Region) End() Offset {
	return r.Off + Offset(r.Size)
}

// Arena is an interface that describes a fixed-capacity memory allocation arena.
type Arena interface {
	// Alloc reserves size bytes and returns the offset of the first byte.
	// On failure it returns Nil and an error.
	Alloc(size int) (Offset, error)

	// Free returns size bytes starting at off to the arena.
	// The caller must pass the same size it allocated; the arena does not
	// remember it.
	Free(off Offset, size int)

	// Reset reinitializes the arena to a single free region spanning the whole buffer.
	// After invoking this method any offset previously returned by Alloc becomes invalid.
	Reset()

	// Len returns the total number of bytes currently allocated in the arena.
	Len() int

	// Cap returns the total capacity in bytes of the arena.
	Cap() int

	// Peak returns the peak number of bytes that have been allocated in the arena.
	// This value is not reset when Reset is called, allowing tracking of maximum usage.
	Peak() int
}
