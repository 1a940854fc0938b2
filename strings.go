// SPDX-License-Identifier: Apache-2.0

package arena

import "bytes"

// DupString copies s into a newly allocated region of len(s)+1 bytes and
// terminates it with a zero byte. Release it with FreeString or
// Free(off, len(s)+1).
//
// A string containing zero bytes is stored in full, but CString and
// FreeString only see the part before the first zero.
func (a *FixedArena) DupString(s string) (Offset, error) {
	off, err := a.Alloc(len(s) + 1)
	if err != nil {
		a.log.Error("string duplication failed")
		return Nil, err
	}
	if err := a.putCString(off, s); err != nil {
		a.Free(off, len(s)+1)
		return Nil, err
	}
	return off, nil
}

// putCString writes s and its terminator at off, bounds-checked like the accessors.
func (a *FixedArena) putCString(off Offset, s string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check("string write", off, len(s)+1); err != nil {
		return err
	}
	n := copy(a.buf[off:], s)
	a.buf[int(off)+n] = 0
	return nil
}

// CString reads the zero-terminated string starting at off. The terminator
// must be found inside the arena.
func (a *FixedArena) CString(off Offset) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.check("string read", off, 1); err != nil {
		return "", err
	}
	n := bytes.IndexByte(a.buf[off:], 0)
	if n < 0 {
		return "", a.check("string read", off, len(a.buf)-int(off)+1)
	}
	return string(a.buf[off : int(off)+n]), nil
}

// FreeString releases a string created by DupString, measuring its length
// the same way CString does.
func (a *FixedArena) FreeString(off Offset) error {
	s, err := a.CString(off)
	if err != nil {
		return err
	}
	return a.release(off, len(s)+1)
}
