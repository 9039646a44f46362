package source

import (
	"math/rand"
)

// RandomIncrementGenerator simulates a growing request total by adding a random
// amount in [0, max) on every step.
type RandomIncrementGenerator struct {
	rand    *rand.Rand
	current float64
	max     int
}

// NewRandomIncrementGenerator creates a generator starting at start. A nil r uses
// a time-seeded source.
func NewRandomIncrementGenerator(start float64, max int, r *rand.Rand) *RandomIncrementGenerator {
	g := new(RandomIncrementGenerator)
	if r == nil {
		r = rand.New(rand.NewSource(rand.Int63()))
	}
	g.rand = r
	g.current = start
	g.max = max
	return g
}

// Next advances the total and returns it.
func (g *RandomIncrementGenerator) Next() float64 {
	if g.max > 0 {
		g.current += float64(g.rand.Intn(g.max))
	}
	return g.current
}

// Current returns the total without advancing it.
func (g *RandomIncrementGenerator) Current() float64 {
	return g.current
}

// Reset moves the total to v; later steps continue from there.
func (g *RandomIncrementGenerator) Reset(v float64) {
	g.current = v
}
