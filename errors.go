// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates an allocation request for zero or fewer bytes.
	ErrInvalidSize = errors.New("arena: allocation size must be positive")

	// ErrExhaustedArena indicates that no free region is large enough for the request.
	ErrExhaustedArena = errors.New("arena: no free region large enough")

	// ErrExhaustedDescriptors indicates that a freed region could not be recorded
	// because every descriptor slot is in use. The region is leaked.
	ErrExhaustedDescriptors = errors.New("arena: no free descriptor slot")

	// ErrOutOfBounds indicates an access that does not lie entirely inside the arena.
	ErrOutOfBounds = errors.New("arena: access out of bounds")

	// ErrInvalidConfig indicates a non-positive arena size or descriptor count.
	ErrInvalidConfig = errors.New("arena: invalid configuration")

	// ErrUnknownRegion indicates a tracked release of an offset that is not live.
	ErrUnknownRegion = errors.New("arena: offset is not a live allocation")

	// ErrSizeMismatch indicates a tracked release whose size differs from the allocation.
	ErrSizeMismatch = errors.New("arena: release size does not match allocation")
)

// AccessError records a rejected accessor call.
type AccessError struct {
	Op  string
	Off Offset
	Len int
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("arena: %s at offset %d (len %d) out of bounds", e.Op, e.Off, e.Len)
}

func (e *AccessError) Unwrap() error {
	return ErrOutOfBounds
}
