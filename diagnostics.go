// SPDX-License-Identifier: Apache-2.0

package arena

import "go.uber.org/zap"

// Stats is a snapshot of arena usage.
type Stats struct {
	Cap         int     // arena size in bytes
	Len         int     // bytes allocated, including leaked regions
	Peak        int     // high-water mark of Len
	Free        int     // bytes in the free-region list
	Regions     int     // number of free regions
	Largest     int     // size of the largest free region
	MaxBlocks   int     // descriptor pool capacity
	SpareBlocks int     // descriptor slots not in use
	Utilization float64 // Len / Cap
}

// Report logs every free region in ascending address order.
func (a *FixedArena) Report() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.log.Info("free blocks", zap.Int("free", a.free))
	for i := a.head; i != none; i = a.slots[i].next {
		d := &a.slots[i]
		a.log.Info("free block", zap.Int("offset", int(d.off)), zap.Int("size", d.size))
	}
	a.log.Info("end of free blocks")
}

// FreeRegions returns the free-region list in ascending address order.
func (a *FixedArena) FreeRegions() []Region {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []Region
	for i := a.head; i != none; i = a.slots[i].next {
		out = append(out, Region{Off: a.slots[i].off, Size: a.slots[i].size})
	}
	return out
}

// Stats returns a snapshot of arena statistics.
func (a *FixedArena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := Stats{
		Cap:         len(a.buf),
		Len:         len(a.buf) - a.free,
		Peak:        a.peak,
		Free:        a.free,
		MaxBlocks:   len(a.slots),
		SpareBlocks: a.spareCount(),
	}
	for i := a.head; i != none; i = a.slots[i].next {
		s.Regions++
		if a.slots[i].size > s.Largest {
			s.Largest = a.slots[i].size
		}
	}
	s.Utilization = float64(s.Len) / float64(s.Cap)
	return s
}
