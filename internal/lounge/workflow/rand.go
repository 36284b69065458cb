package workflow

import (
	"math"
	"math/rand/v2"
)

// Rand is the randomness a recognition scan draws from.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// NewRand returns a seeded PCG source. It is not safe for concurrent use;
// each workflow owns its own.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// round1 rounds half away from zero to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
