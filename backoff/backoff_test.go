package backoff

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	tests := []struct {
		name    string
		base    float64
		attempt int
		jitter  float64
	}{
		{"first_attempt_base_1", 1.0, 0, 0.5},
		{"second_attempt_base_1", 1.0, 1, 0.5},
		{"fifth_attempt_base_2", 2.0, 4, 0.5},
		{"no_jitter", 1.0, 3, 0.0},
		{"full_jitter", 2.0, 2, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The delay is randomized, so sample it repeatedly and check the bounds hold.
			for i := 0; i < 1000; i++ {
				d := Delay(tt.base, tt.attempt, tt.jitter, rng)
				raw := tt.base * float64(uint64(1)<<uint(tt.attempt))
				upper := time.Duration(raw * (1 + tt.jitter) * float64(time.Second))

				assert.GreaterOrEqual(t, d, time.Duration(0), "delay must never be negative")
				assert.LessOrEqual(t, d, upper, "delay must not exceed base * 2^attempt * (1+jitter)")
			}
		})
	}
}

func TestDelayNoJitterIsExact(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// With jitter 0 the delay is exactly base * 2^attempt seconds.
	assert.Equal(t, 1*time.Second, Delay(1.0, 0, 0, rng))
	assert.Equal(t, 2*time.Second, Delay(1.0, 1, 0, rng))
	assert.Equal(t, 8*time.Second, Delay(2.0, 2, 0, rng))
}

func TestDelayFlooredAtZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// A jitter fraction above 1.0 can push the scale factor negative;
	// the result must still be floored at zero.
	for i := 0; i < 1000; i++ {
		d := Delay(1.0, 0, 5.0, rng)
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

func TestSleeperUsesInjectedSleep(t *testing.T) {
	var slept []time.Duration
	s := NewSleeper(0, func(d time.Duration) { slept = append(slept, d) })

	d := s.Sleep(2.0, 1)
	require.Len(t, slept, 1)
	assert.Equal(t, d, slept[0])
	assert.Equal(t, 4*time.Second, d, "base 2.0 at attempt 1 with no jitter is 4s")
}
