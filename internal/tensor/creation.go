package tensor

import "math/rand"

// Randn creates a rows×cols matrix with values drawn from a standard
// normal distribution.
// Note: uses math/rand (not crypto/rand) - appropriate for numeric testing
// and benchmarking.
func Randn(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.data {
		m.data[i] = float32(rand.NormFloat64())
	}
	return m
}

// RandnSeeded is Randn with an explicit source, for reproducible fixtures.
func RandnSeeded(rows, cols int, rng *rand.Rand) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range m.data {
		m.data[i] = float32(rng.NormFloat64())
	}
	return m
}
