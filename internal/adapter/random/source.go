// Package random provides the event-draw randomness for sessions.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Seeded is a reproducible PCG stream guarded for concurrent use.
type Seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewSeeded(seed uint64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *Seeded) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// Crypto draws from crypto/rand.
type Crypto struct{}

func (Crypto) Float64() float64 {
	return float64(cryptoUint64()>>11) / float64(1<<53)
}

func (Crypto) IntN(n int) int {
	if n <= 0 {
		panic("random: invalid argument to IntN")
	}
	// rejection sampling keeps the draw unbiased
	bound := uint64(n)
	limit := ^uint64(0) - (^uint64(0) % bound)
	for {
		v := cryptoUint64()
		if v < limit {
			return int(v % bound)
		}
	}
}

func cryptoUint64() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(buf[:])
}
