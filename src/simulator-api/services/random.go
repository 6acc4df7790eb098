package services

import "math/rand"

// RandomSource is the only source of randomness in the simulation. Seeding
// it makes a whole run replayable.
type RandomSource interface {
	NormFloat64() float64
	Float64() float64
	Intn(n int) int
}

func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}
