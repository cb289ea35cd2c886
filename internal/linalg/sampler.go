package linalg

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Sampling range for matrix entries, inclusive on both ends.
const (
	SampleMin  = -5
	SampleMax  = 5
	SampleSpan = SampleMax - SampleMin + 1
)

// Float64Source produces uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

// Sampler draws random integer matrices for new rounds.
// It is safe for concurrent use.
type Sampler struct {
	src Float64Source
	mu  sync.Mutex
}

// NewSampler creates a Sampler reading from src.
// If src is nil, a time-seeded PCG generator is used.
func NewSampler(src Float64Source) *Sampler {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.New(rand.NewPCG(now, now>>1|1))
	}
	return &Sampler{src: src}
}

// NewSeededSampler creates a Sampler whose sequence is fully determined by seed.
func NewSeededSampler(seed uint64) *Sampler {
	return &Sampler{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Sample returns a matrix whose entries are independent integers drawn
// uniformly from [SampleMin, SampleMax] via floor(u·SampleSpan) + SampleMin.
func (s *Sampler) Sample() Matrix {
	s.mu.Lock()
	defer s.mu.Unlock()

	var m Matrix
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			m[r][c] = s.entry()
		}
	}
	return m
}

// entry must be called while holding the mutex.
func (s *Sampler) entry() float64 {
	u := s.src.Float64()
	// A misbehaving source must not push the entry out of range.
	if u < 0 || u >= 1 || math.IsNaN(u) {
		u = 0
	}
	return math.Floor(u*SampleSpan) + SampleMin
}
