package spawn

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Rand is the random source used by the generation pipeline.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG-backed source seeded from crypto/rand.
func NewRand() (Rand, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("reading random seed: %w", err)
	}
	return NewSeededRand(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])), nil
}

// NewSeededRand returns a deterministic source, safe for concurrent use.
func NewSeededRand(seed1, seed2 uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// lockedRand serialises access to a non-thread-safe source.
type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// synchronized wraps r unless it is already safe for concurrent use.
func synchronized(r Rand) Rand {
	if l, ok := r.(*lockedRand); ok {
		return l
	}
	return &lockedRand{r: r}
}
