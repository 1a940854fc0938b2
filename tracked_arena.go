// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// TrackedArena wraps a FixedArena and remembers the size of every live
// allocation. It rejects releases of offsets it did not hand out, repeated
// releases and releases with the wrong size, none of which FixedArena can
// detect. The accessors of the wrapped arena are available unchanged.
type TrackedArena struct {
	*FixedArena

	mu   sync.Mutex
	live map[Offset]int
}

// NewTracked creates a FixedArena with the given options and wraps it.
func NewTracked(opts ...FixedArenaOption) (*TrackedArena, error) {
	a, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return &TrackedArena{
		FixedArena: a,
		live:       make(map[Offset]int),
	}, nil
}

// Alloc satisfies the Arena interface.
func (t *TrackedArena) Alloc(size int) (Offset, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	off, err := t.FixedArena.Alloc(size)
	if err != nil {
		return Nil, err
	}
	t.live[off] = size
	return off, nil
}

// Free satisfies the Arena interface. Releases that do not match a live
// allocation exactly are logged and ignored.
func (t *TrackedArena) Free(off Offset, size int) {
	if off < 0 || size <= 0 {
		return
	}
	_ = t.FreeSized(off, size)
}

// FreeSized releases the allocation at off after checking that it is live
// and was made with exactly size bytes.
func (t *TrackedArena) FreeSized(off Offset, size int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	have, ok := t.live[off]
	if !ok {
		t.log.Error("release of unknown region", zap.Int("offset", int(off)), zap.Int("size", size))
		return fmt.Errorf("%w: offset %d", ErrUnknownRegion, off)
	}
	if have != size {
		t.log.Error("release size mismatch", zap.Int("offset", int(off)), zap.Int("size", size), zap.Int("allocated", have))
		return fmt.Errorf("%w: offset %d allocated %d, released %d", ErrSizeMismatch, off, have, size)
	}
	return t.forget(off, size)
}

// Release frees the allocation at off using its recorded size.
func (t *TrackedArena) Release(off Offset) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	size, ok := t.live[off]
	if !ok {
		t.log.Error("release of unknown region", zap.Int("offset", int(off)))
		return fmt.Errorf("%w: offset %d", ErrUnknownRegion, off)
	}
	return t.forget(off, size)
}

// forget hands the region back to the arena. The region stays tracked if
// the arena could not record it, so the caller may retry later.
func (t *TrackedArena) forget(off Offset, size int) error {
	if err := t.FixedArena.release(off, size); err != nil {
		return err
	}
	delete(t.live, off)
	return nil
}

// DupString is FixedArena.DupString with the allocation tracked.
func (t *TrackedArena) DupString(s string) (Offset, error) {
	off, err := t.Alloc(len(s) + 1)
	if err != nil {
		return Nil, err
	}
	if err := t.putCString(off, s); err != nil {
		_ = t.Release(off)
		return Nil, err
	}
	return off, nil
}

// FreeString releases a string created by DupString using its recorded size.
func (t *TrackedArena) FreeString(off Offset) error {
	return t.Release(off)
}

// Reset satisfies the Arena interface and forgets every tracked allocation.
func (t *TrackedArena) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.FixedArena.Reset()
	clear(t.live)
}

// Outstanding returns the live allocations in ascending address order.
func (t *TrackedArena) Outstanding() []Region {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Region, 0, len(t.live))
	for off, size := range t.live {
		out = append(out, Region{Off: off, Size: size})
	}
	slices.SortFunc(out, func(x, y Region) int {
		return int(x.Off) - int(y.Off)
	})
	return out
}

var _ Arena = (*TrackedArena)(nil)
