// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"io"
)

// RegionBuffer is a bytes.Buffer-like struct over one allocated arena region.
// It implements io.Writer, io.Reader, io.WriterTo and io.ReaderFrom. Its
// capacity is the region size and it never grows: writes that do not fit
// are truncated and report io.ErrShortWrite. All memory traffic goes
// through the arena's bounds-checked accessors.
type RegionBuffer struct {
	arena *FixedArena
	base  Offset
	size  int
	r     int // read offset
	w     int // write offset
}

// NewRegionBuffer creates a Buffer over size bytes starting at base.
// The region is typically obtained from Alloc and must stay allocated while
// the buffer is in use.
func NewRegionBuffer(arena *FixedArena, base Offset, size int) *RegionBuffer {
	return &RegionBuffer{
		arena: arena,
		base:  base,
		size:  size,
	}
}

// Write implements io.Writer interface.
// It writes as many bytes of p as fit into the region.
func (b *RegionBuffer) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	n = min(len(p), b.size-b.w)
	if n > 0 {
		if err := b.arena.WriteBlock(b.base+Offset(b.w), p[:n]); err != nil {
			return 0, err
		}
		b.w += n
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteByte writes a single byte to the buffer.
func (b *RegionBuffer) WriteByte(c byte) error {
	if b.w >= b.size {
		return io.ErrShortWrite
	}
	if err := b.arena.SetByte(b.base+Offset(b.w), c); err != nil {
		return err
	}
	b.w++
	return nil
}

// WriteString writes a string to the buffer.
func (b *RegionBuffer) WriteString(s string) (n int, err error) {
	return b.Write([]byte(s))
}

// WriteTo writes the unread portion of the buffer to w.
func (b *RegionBuffer) WriteTo(w io.Writer) (n int64, err error) {
	if b.Len() == 0 {
		return 0, nil
	}

	data, err := b.arena.Bytes(b.base+Offset(b.r), b.Len())
	if err != nil {
		return 0, err
	}
	m, err := w.Write(data)
	if m > 0 {
		n = int64(m)
		b.advance(m)
	}
	return n, err
}

// Read reads up to len(p) bytes from the buffer into p.
// It returns the number of bytes read and any error encountered.
func (b *RegionBuffer) Read(p []byte) (n int, err error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}

	n = min(len(p), b.Len())
	if err := b.arena.ReadBlock(b.base+Offset(b.r), p[:n]); err != nil {
		return 0, err
	}
	b.advance(n)
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}

// ReadByte reads and returns the next byte from the buffer.
// If no byte is available, it returns io.EOF.
func (b *RegionBuffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}

	c, err := b.arena.Byte(b.base + Offset(b.r))
	if err != nil {
		return 0, err
	}
	b.advance(1)
	return c, nil
}

// ReadFrom implements io.ReaderFrom interface.
// It reads data from r until EOF or until the region is full, whichever
// comes first. Data left in r after the region fills up is not consumed.
func (b *RegionBuffer) ReadFrom(r io.Reader) (n int64, err error) {
	var chunk [512]byte
	for room := b.Available(); room > 0; room = b.Available() {
		nr, er := r.Read(chunk[:min(room, len(chunk))])
		if nr > 0 {
			if _, ew := b.Write(chunk[:nr]); ew != nil {
				return n, ew
			}
			n += int64(nr)
		}
		if er != nil {
			if er == io.EOF {
				return n, nil
			}
			return n, er
		}
	}
	return n, nil
}

// advance consumes n unread bytes. Once everything written has been read
// the buffer rewinds so the whole region is writable again.
func (b *RegionBuffer) advance(n int) {
	b.r += n
	if b.r == b.w {
		b.r, b.w = 0, 0
	}
}

// Bytes returns a copy of the unread portion of the buffer.
func (b *RegionBuffer) Bytes() []byte {
	if b.Len() == 0 {
		return []byte{}
	}
	data, err := b.arena.Bytes(b.base+Offset(b.r), b.Len())
	if err != nil {
		return []byte{}
	}
	return data
}

// String returns the contents of the unread portion of the buffer as a string.
func (b *RegionBuffer) String() string {
	return string(b.Bytes())
}

// Len returns the number of bytes of the unread portion of the buffer.
func (b *RegionBuffer) Len() int {
	return b.w - b.r
}

// Cap returns the size of the underlying region.
func (b *RegionBuffer) Cap() int {
	return b.size
}

// Available returns how many bytes can still be written.
func (b *RegionBuffer) Available() int {
	return b.size - b.w
}

// Region returns the arena region backing the buffer.
func (b *RegionBuffer) Region() Region {
	return Region{Off: b.base, Size: b.size}
}

// Reset resets the buffer to be empty. The region contents are left as they are.
func (b *RegionBuffer) Reset() {
	b.r, b.w = 0, 0
}

// Truncate discards all but the first n unread bytes from the buffer.
func (b *RegionBuffer) Truncate(n int) error {
	if n < 0 || n > b.Len() {
		return fmt.Errorf("%w: truncate to %d of %d bytes", ErrOutOfBounds, n, b.Len())
	}
	b.w = b.r + n
	if n == 0 {
		b.r, b.w = 0, 0
	}
	return nil
}
