// Package readings draws the randomized sensor values used by the stand-in
// vegetation, satellite, weather and diagnosis sources.
package readings

import (
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Source is a goroutine-safe uniform random source.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource seeds a source deterministically.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded seeds a source from the wall clock.
func NewTimeSeeded() *Source {
	return NewSource(time.Now().UnixNano())
}

// Uniform returns a value in [min, max] rounded half away from zero to places decimals.
func (s *Source) Uniform(min, max float64, places int32) float64 {
	s.mu.Lock()
	f := s.rng.Float64()
	s.mu.Unlock()
	v := min + f*(max-min)
	v = Round(v, places)
	if v > max {
		return max
	}
	if v < min {
		return min
	}
	return v
}

// IntBetween returns an int in [min, max].
func (s *Source) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Intn(max-min+1)
}

// Round rounds v to places decimals.
func Round(v float64, places int32) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return rounded
}
