package utils

import (
	"math/rand"
	"sync"
	"time"
)

// RandSource wraps a seeded generator. A RandSource is owned by a single
// goroutine; each GA run gets its own.
type RandSource struct {
	seed int64
	rng  *rand.Rand
}

// NewRandSource creates a new random source with the given seed.
// A zero seed is replaced by the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with
func (r *RandSource) Seed() int64 {
	return r.seed
}

// Float64 returns a random float64 in [0.0, 1.0)
func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

// Intn returns a random int in [0, n)
func (r *RandSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// IntRange returns a uniformly distributed int64 in [min, max]
func (r *RandSource) IntRange(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + r.rng.Int63n(max-min+1)
}

var (
	defaultMu   sync.Mutex
	defaultRand = NewRandSource(0)
)

// SetSeed reseeds the shared default source
func SetSeed(seed int64) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultRand = NewRandSource(seed)
}

// Float64 returns a random float64 from the default source
func Float64() float64 {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultRand.Float64()
}
