// Package sampling picks which sample of a batch gets visualized.
package sampling

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Noofbiz/seqvis"
)

// Source is the randomness a Selector draws from. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Selector picks one sample index uniformly at random. It keeps no state of
// its own between calls beyond the Source, and is not safe for concurrent
// use when the Source is not.
type Selector struct {
	src Source
}

// NewSelector uses src for every draw. A nil src gets a time-seeded
// generator.
func NewSelector(src Source) *Selector {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{src: src}
}

// NewSeededSelector returns a Selector whose draws are reproducible for a
// given seed.
func NewSeededSelector(seed int64) *Selector {
	return NewSelector(rand.New(rand.NewSource(seed)))
}

// Select returns an index in [0, n). n must be >= 1.
func (s *Selector) Select(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("%w: batch size must be >= 1, got %d", seqvis.ErrInvalidInput, n)
	}
	idx := s.src.Intn(n)
	if idx < 0 || idx >= n {
		return 0, fmt.Errorf("%w: source returned %d outside [0, %d)", seqvis.ErrInvalidInput, idx, n)
	}
	return idx, nil
}
