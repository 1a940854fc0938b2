// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	// DefaultSize is the arena size used when WithSize is not given.
	DefaultSize = 1024

	// DefaultMaxBlocks is the descriptor pool capacity used when WithMaxBlocks is not given.
	DefaultMaxBlocks = 32
)

// FixedArena hands out regions of a single fixed-size byte buffer.
//
// Free regions are kept in an address-ordered, fully coalesced list built from
// a fixed pool of descriptor slots. Allocation is first-fit and always takes
// the front of the chosen region. The arena does not remember allocation
// sizes: Free must be called with the size that was passed to Alloc.
//
// All state is guarded by a single lock, which defaults to a sync.Mutex.
type FixedArena struct {
	mu  sync.Locker
	log *zap.Logger

	buf   []byte
	slots []descriptor
	spare int // head of the spare slot list
	head  int // head of the free-region list

	free int // bytes held by the free-region list
	peak int
}

type fixedArenaConfig struct {
	size      int
	maxBlocks int
	locker    sync.Locker
	logger    *zap.Logger
}

// FixedArenaOption represents a configuration option for a fixed arena.
type FixedArenaOption func(*fixedArenaConfig)

// WithSize sets the arena capacity in bytes.
func WithSize(size int) FixedArenaOption {
	return func(c *fixedArenaConfig) {
		c.size = size
	}
}

// WithMaxBlocks sets the number of descriptor slots, which bounds the number
// of free regions the arena can track at once.
func WithMaxBlocks(n int) FixedArenaOption {
	return func(c *fixedArenaConfig) {
		c.maxBlocks = n
	}
}

// WithLogger sets the logger diagnostics and failures are reported to.
func WithLogger(l *zap.Logger) FixedArenaOption {
	return func(c *fixedArenaConfig) {
		c.logger = l
	}
}

// WithLocker sets the lock guarding the arena state.
func WithLocker(l sync.Locker) FixedArenaOption {
	return func(c *fixedArenaConfig) {
		c.locker = l
	}
}

// WithoutLocking disables locking. The arena must then only be used from one goroutine.
func WithoutLocking() FixedArenaOption {
	return WithLocker(nopLocker{})
}

// New creates a fixed arena and initializes it with a single free region
// spanning the whole buffer.
func New(opts ...FixedArenaOption) (*FixedArena, error) {
	cfg := fixedArenaConfig{
		size:      DefaultSize,
		maxBlocks: DefaultMaxBlocks,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.size <= 0 || cfg.maxBlocks <= 0 {
		return nil, fmt.Errorf("%w: size %d, max blocks %d", ErrInvalidConfig, cfg.size, cfg.maxBlocks)
	}
	if cfg.locker == nil {
		cfg.locker = &sync.Mutex{}
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}

	a := &FixedArena{
		mu:    cfg.locker,
		log:   cfg.logger.Named("mem"),
		buf:   make([]byte, cfg.size),
		slots: make([]descriptor, cfg.maxBlocks),
	}
	a.Reset()
	return a, nil
}

// Reset satisfies the Arena interface.
// It does not clear the buffer contents.
func (a *FixedArena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.linkSpare()
	i := a.takeSlot()
	a.slots[i] = descriptor{off: 0, size: len(a.buf), next: none}
	a.head = i
	a.free = len(a.buf)
}

// Alloc satisfies the Arena interface.
func (a *FixedArena) Alloc(size int) (Offset, error) {
	if size <= 0 {
		a.log.Error("allocation rejected", zap.Int("size", size))
		return Nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	prev := none
	for i := a.head; i != none; prev, i = i, a.slots[i].next {
		d := &a.slots[i]
		if d.size < size {
			continue
		}
		off := d.off
		if d.size == size {
			a.unlink(prev, i)
			a.putSlot(i)
		} else {
			d.off += Offset(size)
			d.size -= size
		}
		a.free -= size
		if used := len(a.buf) - a.free; used > a.peak {
			a.peak = used
		}
		return off, nil
	}

	a.log.Error("allocation failed", zap.Int("size", size), zap.Int("free", a.free))
	return Nil, fmt.Errorf("%w: %d bytes", ErrExhaustedArena, size)
}

// Free satisfies the Arena interface.
//
// A Nil offset or a non-positive size is ignored. If no descriptor slot is
// available the region cannot be recorded and stays allocated forever.
// Freeing a region twice, or a region that was never allocated, is not
// detected and corrupts the free list; use TrackedArena when that matters.
func (a *FixedArena) Free(off Offset, size int) {
	_ = a.release(off, size)
}

func (a *FixedArena) release(off Offset, size int) error {
	if off < 0 || size <= 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.insertFree(off, size); err != nil {
		a.log.Error("free failed", zap.Int("offset", int(off)), zap.Int("size", size), zap.Error(err))
		return err
	}
	return nil
}

// insertFree inserts [off, off+size) into the free-region list and coalesces it
// with its neighbours. The caller holds the lock.
func (a *FixedArena) insertFree(off Offset, size int) error {
	n := a.takeSlot()
	if n == none {
		return ErrExhaustedDescriptors
	}
	a.slots[n] = descriptor{off: off, size: size, next: none}

	prev, next := none, a.head
	for next != none && a.slots[next].off < off {
		prev, next = next, a.slots[next].next
	}
	a.slots[n].next = next
	if prev == none {
		a.head = n
	} else {
		a.slots[prev].next = n
	}
	a.free += size

	// Forward first so a region filling a gap merges with both sides.
	if next != none && a.slots[n].end() == a.slots[next].off {
		a.slots[n].size += a.slots[next].size
		a.slots[n].next = a.slots[next].next
		a.putSlot(next)
	}
	if prev != none && a.slots[prev].end() == a.slots[n].off {
		a.slots[prev].size += a.slots[n].size
		a.slots[prev].next = a.slots[n].next
		a.putSlot(n)
	}
	return nil
}

// Len satisfies the Arena interface. Leaked regions count as allocated.
func (a *FixedArena) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buf) - a.free
}

// Cap satisfies the Arena interface.
func (a *FixedArena) Cap() int {
	return len(a.buf)
}

// Peak satisfies the Arena interface.
func (a *FixedArena) Peak() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.peak
}

// MaxBlocks returns the capacity of the descriptor pool.
func (a *FixedArena) MaxBlocks() int {
	return len(a.slots)
}

var _ Arena = (*FixedArena)(nil)
