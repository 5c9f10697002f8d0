package remote

import (
	"math/rand"
	"sync"
	"time"
)

// FailurePolicy decides, per call, whether a simulated operation fails.
type FailurePolicy interface {
	ShouldFail() bool
}

type FailureFunc func() bool

func (f FailureFunc) ShouldFail() bool { return f() }

var (
	Never  FailurePolicy = FailureFunc(func() bool { return false })
	Always FailurePolicy = FailureFunc(func() bool { return true })
)

// RandomFailure fails independently on each call with probability Rate.
type RandomFailure struct {
	rate float64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomFailure(rate float64, seed int64) *RandomFailure {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomFailure{rate: rate, rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomFailure) ShouldFail() bool {
	if r.rate <= 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < r.rate
}

// Sequence replays a fixed list of outcomes, then keeps returning the last.
type Sequence struct {
	mu       sync.Mutex
	outcomes []bool
}

func NewSequence(outcomes ...bool) *Sequence {
	return &Sequence{outcomes: outcomes}
}

func (s *Sequence) ShouldFail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.outcomes) == 0 {
		return false
	}
	out := s.outcomes[0]
	if len(s.outcomes) > 1 {
		s.outcomes = s.outcomes[1:]
	}
	return out
}
