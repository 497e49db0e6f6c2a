package ledger

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDAllocator hands out identifiers that are unique within a store.
type IDAllocator interface {
	NewID() string
}

// UUIDAllocator allocates random (version 4) UUIDs.
type UUIDAllocator struct{}

// NewID returns a fresh UUID string.
func (UUIDAllocator) NewID() string {
	return uuid.NewString()
}

// SequenceAllocator allocates "<prefix>-<n>" ids from a monotonic counter.
type SequenceAllocator struct {
	Prefix string
	next   atomic.Uint64
}

// NewID returns the next id in the sequence, starting at 1.
func (a *SequenceAllocator) NewID() string {
	n := a.next.Add(1)
	if a.Prefix == "" {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s-%d", a.Prefix, n)
}
