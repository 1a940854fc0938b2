// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"encoding/binary"
	"math"

	"go.uber.org/zap"
)

// Accessors read and write arena memory at an offset. Each one first checks
// that [off, off+n) lies inside the arena and refuses the whole operation
// otherwise, so a failed call never writes a single byte. The check only
// protects the arena boundary: it does not know which regions are allocated.
//
// Multi-byte values use the host byte order.

// check reports whether [off, off+n) lies inside the arena. The caller holds the lock.
func (a *FixedArena) check(op string, off Offset, n int) error {
	if off >= 0 && n >= 0 && int(off) <= len(a.buf)-n {
		return nil
	}
	a.log.Error("invalid access", zap.String("op", op), zap.Int("offset", int(off)), zap.Int("len", n))
	return &AccessError{Op: op, Off: off, Len: n}
}

func (a *FixedArena) store(op string, off Offset, src []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(op, off, len(src)); err != nil {
		return err
	}
	copy(a.buf[off:], src)
	return nil
}

func (a *FixedArena) load(op string, off Offset, dst []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check(op, off, len(dst)); err != nil {
		return err
	}
	copy(dst, a.buf[off:])
	return nil
}

// SetInt32 writes v at off.
func (a *FixedArena) SetInt32(off Offset, v int32) error {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], uint32(v))
	return a.store("int write", off, b[:])
}

// Int32 reads the value at off.
func (a *FixedArena) Int32(off Offset) (int32, error) {
	var b [4]byte
	if err := a.load("int read", off, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.NativeEndian.Uint32(b[:])), nil
}

// SetInt64 writes v at off.
func (a *FixedArena) SetInt64(off Offset, v int64) error {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], uint64(v))
	return a.store("int64 write", off, b[:])
}

// Int64 reads the value at off.
func (a *FixedArena) Int64(off Offset) (int64, error) {
	var b [8]byte
	if err := a.load("int64 read", off, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.NativeEndian.Uint64(b[:])), nil
}

// SetByte writes a single character at off.
func (a *FixedArena) SetByte(off Offset, v byte) error {
	return a.store("char write", off, []byte{v})
}

// Byte reads a single character at off.
func (a *FixedArena) Byte(off Offset) (byte, error) {
	var b [1]byte
	if err := a.load("char read", off, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// SetFloat32 writes v at off.
func (a *FixedArena) SetFloat32(off Offset, v float32) error {
	var b [4]byte
	binary.NativeEndian.PutUint32(b[:], math.Float32bits(v))
	return a.store("float write", off, b[:])
}

// Float32 reads the value at off.
func (a *FixedArena) Float32(off Offset) (float32, error) {
	var b [4]byte
	if err := a.load("float read", off, b[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.NativeEndian.Uint32(b[:])), nil
}

// SetFloat64 writes v at off.
func (a *FixedArena) SetFloat64(off Offset, v float64) error {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], math.Float64bits(v))
	return a.store("double write", off, b[:])
}

// Float64 reads the value at off.
func (a *FixedArena) Float64(off Offset) (float64, error) {
	var b [8]byte
	if err := a.load("double read", off, b[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.NativeEndian.Uint64(b[:])), nil
}

// WriteBlock copies data into the arena starting at off.
func (a *FixedArena) WriteBlock(off Offset, data []byte) error {
	return a.store("block write", off, data)
}

// ReadBlock fills out with len(out) bytes starting at off.
func (a *FixedArena) ReadBlock(off Offset, out []byte) error {
	return a.load("block read", off, out)
}

// Bytes returns a copy of the n bytes starting at off.
func (a *FixedArena) Bytes(off Offset, n int) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check("block read", off, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, a.buf[off:])
	return out, nil
}

// Fill sets n bytes starting at off to v.
func (a *FixedArena) Fill(off Offset, v byte, n int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check("memset", off, n); err != nil {
		return err
	}
	b := a.buf[off : int(off)+n]
	for i := range b {
		b[i] = v
	}
	return nil
}
