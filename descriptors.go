// SPDX-License-Identifier: Apache-2.0

package arena

// none terminates a descriptor list.
const none = -1

// descriptor is one slot of the fixed descriptor pool. A slot is linked into
// exactly one of two lists: the spare list or the free-region list.
type descriptor struct {
	off  Offset
	size int
	next int
}

func (d *descriptor) end() Offset {
	return d.off + Offset(d.size)
}

// linkSpare chains every slot into the spare list and empties the free-region list.
func (a *FixedArena) linkSpare() {
	for i := range a.slots {
		a.slots[i] = descriptor{next: i + 1}
	}
	a.slots[len(a.slots)-1].next = none
	a.spare = 0
	a.head = none
}

// takeSlot pops a slot from the spare list, or returns none if it is empty.
func (a *FixedArena) takeSlot() int {
	i := a.spare
	if i == none {
		return none
	}
	a.spare = a.slots[i].next
	a.slots[i].next = none
	return i
}

// putSlot pushes slot i back onto the spare list.
func (a *FixedArena) putSlot(i int) {
	a.slots[i] = descriptor{next: a.spare}
	a.spare = i
}

// unlink removes slot i from the free-region list. prev is the slot before i,
// or none if i is the head.
func (a *FixedArena) unlink(prev, i int) {
	if prev == none {
		a.head = a.slots[i].next
	} else {
		a.slots[prev].next = a.slots[i].next
	}
}

// spareCount walks the spare list.
func (a *FixedArena) spareCount() int {
	n := 0
	for i := a.spare; i != none; i = a.slots[i].next {
		n++
	}
	return n
}
