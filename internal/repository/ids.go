package repository

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// IDGenerator mints entity ids. Injected so tests can pin ids and so id
// generation never depends on the wall clock.
type IDGenerator func() uuid.UUID

// Clock returns the current time. Injected for deterministic tests.
type Clock func() time.Time

// Sequencer hands out human-readable sequence numbers from a monotonic
// counter, one counter per prefix. Safe for concurrent use.
type Sequencer struct {
	prefix string
	next   atomic.Int64
}

// NewSequencer starts a sequencer at 1 with the given prefix, e.g. "INV".
func NewSequencer(prefix string) *Sequencer {
	return &Sequencer{prefix: prefix}
}

// Next returns the next number formatted as PREFIX-000001.
func (s *Sequencer) Next() string {
	n := s.next.Add(1)
	return fmt.Sprintf("%s-%06d", s.prefix, n)
}

// NextTicket is a bare monotonic counter for sale ticket numbers.
type NextTicket struct {
	n atomic.Int64
}

func (t *NextTicket) Next() int64 { return t.n.Add(1) }
