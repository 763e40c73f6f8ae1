package seed

import (
	"math/rand"
	"time"
)

// Sampler draws uniform integers in [0, n). *rand.Rand satisfies it.
type Sampler interface {
	Intn(n int) int
}

// NewSampler returns a math/rand backed sampler. A zero seed uses the clock.
func NewSampler(seed int64) Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// between returns a uniform integer in [lo, hi].
func between(s Sampler, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}
