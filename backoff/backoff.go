package backoff

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter is the fraction by which a computed delay is randomly
// perturbed in both directions when no explicit jitter is given.
const DefaultJitter = 0.5

// Delay computes a jittered exponential backoff duration.
//
// The raw delay is base * 2^attempt seconds (attempt is zero-based). The raw
// value is then scaled by a factor drawn uniformly from [1-jitter, 1+jitter].
// The result is floored at zero, so a jitter fraction above 1.0 can never
// produce a negative duration.
func Delay(base float64, attempt int, jitter float64, rng *rand.Rand) time.Duration {
	wait := base * float64(uint64(1)<<uint(attempt))
	wait = wait * (1 + (rng.Float64()*2-1)*jitter)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait * float64(time.Second))
}

// Sleeper applies jittered exponential backoff sleeps. It owns a local rand
// source (the global one needs locking for concurrent use) and an injectable
// sleep function so tests can run without real delays.
// A Sleeper is safe for concurrent use.
type Sleeper struct {
	jitter float64
	sleep  func(time.Duration)

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSleeper creates a Sleeper with the given jitter fraction.
// If sleep is nil, time.Sleep is used.
func NewSleeper(jitter float64, sleep func(time.Duration)) *Sleeper {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Sleeper{
		jitter: jitter,
		sleep:  sleep,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Sleep blocks for a jittered exponential delay derived from base (seconds)
// and the zero-based attempt index, and returns the duration slept.
func (s *Sleeper) Sleep(base float64, attempt int) time.Duration {
	s.mu.Lock()
	d := Delay(base, attempt, s.jitter, s.rng)
	s.mu.Unlock()
	s.sleep(d)
	return d
}
