// Package entropy provides the random source used for stochastic simulation
// events. The default source draws from crypto/rand; tests inject a seeded
// source so damage variance becomes reproducible.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"
	"sync"
)

// Source yields uniform random floats in [0, 1).
type Source interface {
	Float() float64
}

// Crypto is a Source backed by crypto/rand. The zero value is usable.
type Crypto struct{}

// Float returns a uniform float64 in [0, 1) from crypto/rand.
func (Crypto) Float() float64 {
	return cryptoRandFloat()
}

// Seeded is a deterministic Source for tests and replayable simulations.
type Seeded struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeeded creates a deterministic source from a seed.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float returns the next uniform float64 in [0, 1).
func (s *Seeded) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
