// Package ids hands out identifiers for catalog entities, sizes and carts.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type Generator interface {
	NewID() string
}

// UUID generates random v4 UUIDs.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Sequence yields prefix-1, prefix-2, ... and is meant for tests.
type Sequence struct {
	Prefix string

	mu sync.Mutex
	n  int
}

func NewSequence(prefix string) *Sequence { return &Sequence{Prefix: prefix} }

func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}
