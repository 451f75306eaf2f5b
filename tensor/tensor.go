// Copyright 2026 AttnKit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the dense matrices the
// attention kernels operate on.
//
// A Matrix is a row-major float32 matrix with zero-copy row slicing and
// pure (non-mutating) arithmetic. Every reduction accumulates in float64.
//
// Example:
//
//	q, err := tensor.FromSlice(data, seqLen, headDim)
//	scores := tensor.MatMulT(q, k) // q · kᵀ
package tensor

import (
	"math/rand"

	"github.com/attnkit/attnkit/internal/tensor"
)

// Matrix is a dense row-major float32 matrix.
type Matrix = tensor.Matrix

// NewMatrix creates a zero-filled rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return tensor.NewMatrix(rows, cols)
}

// FromSlice creates a rows×cols matrix backed by the given flat row-major
// slice (not copied).
func FromSlice(data []float32, rows, cols int) (*Matrix, error) {
	return tensor.FromSlice(data, rows, cols)
}

// Randn creates a rows×cols matrix of standard normal values.
func Randn(rows, cols int) *Matrix {
	return tensor.Randn(rows, cols)
}

// RandnSeeded is Randn with an explicit source, for reproducible fixtures.
func RandnSeeded(rows, cols int, rng *rand.Rand) *Matrix {
	return tensor.RandnSeeded(rows, cols, rng)
}

// MatMulT computes a · bᵀ for a (m×d) and b (n×d).
func MatMulT(a, b *Matrix) *Matrix {
	return tensor.MatMulT(a, b)
}

// MatMul computes a · b for a (m×n) and b (n×d).
func MatMul(a, b *Matrix) *Matrix {
	return tensor.MatMul(a, b)
}

// L2NormalizeRows returns a copy of m with every row divided by its
// Euclidean norm plus eps.
func L2NormalizeRows(m *Matrix, eps float32) *Matrix {
	return tensor.L2NormalizeRows(m, eps)
}
