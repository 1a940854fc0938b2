// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessorsRoundTrip(t *testing.T) {
	arena, logs := newObservedArena(t, WithSize(64))

	off, err := arena.Alloc(32)
	require.NoError(t, err)

	require.NoError(t, arena.SetInt32(off, -123456))
	i32, err := arena.Int32(off)
	require.NoError(t, err)
	require.Equal(t, int32(-123456), i32)

	require.NoError(t, arena.SetInt64(off+4, math.MinInt64+7))
	i64, err := arena.Int64(off + 4)
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64+7), i64)

	require.NoError(t, arena.SetByte(off+12, 'x'))
	c, err := arena.Byte(off + 12)
	require.NoError(t, err)
	require.Equal(t, byte('x'), c)

	require.NoError(t, arena.SetFloat32(off+13, 3.25))
	f32, err := arena.Float32(off + 13)
	require.NoError(t, err)
	require.Equal(t, float32(3.25), f32)

	require.NoError(t, arena.SetFloat64(off+17, math.Pi))
	f64, err := arena.Float64(off + 17)
	require.NoError(t, err)
	require.Equal(t, math.Pi, f64)

	require.NoError(t, arena.WriteBlock(off+25, []byte("abcdefg")))
	out := make([]byte, 7)
	require.NoError(t, arena.ReadBlock(off+25, out))
	require.Equal(t, []byte("abcdefg"), out)

	require.NoError(t, arena.Fill(off, 0x5a, 32))
	data, err := arena.Bytes(off, 32)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0x5a}, 32), data)

	require.Zero(t, logs.Len())
}

func TestAccessorsLastByte(t *testing.T) {
	arena, _ := newObservedArena(t, WithSize(64))

	require.NoError(t, arena.SetInt32(60, 42))
	v, err := arena.Int32(60)
	require.NoError(t, err)
	require.Equal(t, int32(42), v)

	require.NoError(t, arena.SetByte(63, 1))
	require.NoError(t, arena.Fill(0, 0, 64))
	require.NoError(t, arena.WriteBlock(64, nil))
	require.NoError(t, arena.Fill(64, 0xff, 0))
}

func TestAccessorsRejectOutOfBounds(t *testing.T) {
	const size = 64
	arena, logs := newObservedArena(t, WithSize(size))

	pattern := bytes.Repeat([]byte{0xaa}, size)
	require.NoError(t, arena.WriteBlock(0, pattern))

	tests := []struct {
		name string
		op   string
		fn   func() error
	}{
		{"int write past end", "int write", func() error { return arena.SetInt32(61, 1) }},
		{"int write negative", "int write", func() error { return arena.SetInt32(-1, 1) }},
		{"int read past end", "int read", func() error { _, err := arena.Int32(62); return err }},
		{"int64 write past end", "int64 write", func() error { return arena.SetInt64(57, 1) }},
		{"int64 read nil", "int64 read", func() error { _, err := arena.Int64(Nil); return err }},
		{"char write at end", "char write", func() error { return arena.SetByte(size, 'x') }},
		{"char read at end", "char read", func() error { _, err := arena.Byte(size); return err }},
		{"float write past end", "float write", func() error { return arena.SetFloat32(63, 1.5) }},
		{"float read past end", "float read", func() error { _, err := arena.Float32(size); return err }},
		{"double write past end", "double write", func() error { return arena.SetFloat64(60, 1.5) }},
		{"double read past end", "double read", func() error { _, err := arena.Float64(60); return err }},
		{"block write straddling end", "block write", func() error { return arena.WriteBlock(60, []byte("hello")) }},
		{"block write too large", "block write", func() error { return arena.WriteBlock(0, make([]byte, size+1)) }},
		{"block read straddling end", "block read", func() error { return arena.ReadBlock(63, make([]byte, 2)) }},
		{"bytes negative length", "block read", func() error { _, err := arena.Bytes(0, -1); return err }},
		{"memset straddling end", "memset", func() error { return arena.Fill(1, 0, size) }},
		{"memset huge length", "memset", func() error { return arena.Fill(0, 0, math.MaxInt) }},
		{"memset negative length", "memset", func() error { return arena.Fill(0, 0, -1) }},
		{"memset huge offset", "memset", func() error { return arena.Fill(Offset(math.MaxInt), 0, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.ErrorIs(t, err, ErrOutOfBounds)

			var accessErr *AccessError
			require.ErrorAs(t, err, &accessErr)
			require.Equal(t, tt.op, accessErr.Op)

			data, err := arena.Bytes(0, size)
			require.NoError(t, err)
			require.Equal(t, pattern, data, "memory changed by a rejected call")
		})
	}

	require.Equal(t, len(tests), errorCount(logs, "invalid access"))
}

func TestAccessorsIgnoreAllocationState(t *testing.T) {
	arena, _ := newObservedArena(t, WithSize(64))

	// Only the arena boundary is checked, not whether the bytes are allocated.
	require.NoError(t, arena.SetInt32(32, 7))
	v, err := arena.Int32(32)
	require.NoError(t, err)
	require.Equal(t, int32(7), v)
	require.Equal(t, 0, arena.Len())
}

func TestAccessErrorMessage(t *testing.T) {
	err := &AccessError{Op: "int write", Off: 70, Len: 4}
	require.Equal(t, "arena: int write at offset 70 (len 4) out of bounds", err.Error())
}
