// Copyright 2026 AttnKit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package attention

import (
	"github.com/attnkit/attnkit/internal/attention"
	"github.com/attnkit/attnkit/internal/tensor"
)

// Config controls the chunked attention computation.
// The zero value is usable: zero chunk sizes take the package defaults.
type Config = attention.Config

// CosineConfig controls the cosine-similarity attention computation.
type CosineConfig = attention.CosineConfig

// Default parameter values applied by the zero Config.
const (
	DefaultQueryChunkSize = attention.DefaultQueryChunkSize
	DefaultKeyChunkSize   = attention.DefaultKeyChunkSize
	DefaultScale          = attention.DefaultScale
	DefaultEps            = attention.DefaultEps
)

// Sentinel errors returned for precondition violations. Match with
// errors.Is.
var (
	ErrShapeMismatch = attention.ErrShapeMismatch
	ErrEmptySequence = attention.ErrEmptySequence
	ErrInvalidConfig = attention.ErrInvalidConfig
)

// Attention computes softmax(Q·Kᵀ/sqrt(head_dim))·V in tiles, holding at
// most one (QueryChunkSize × KeyChunkSize) score block at a time.
//
// Example:
//
//	out, err := attention.Attention(q, k, v, attention.Config{})
func Attention(q, k, v *tensor.Matrix, cfg Config) (*tensor.Matrix, error) {
	return attention.Attention(q, k, v, cfg)
}

// CosineSimAttention computes cosine-similarity attention: Q and K rows
// are L2-normalized, scores are scaled by a fixed temperature and
// exponentiated without max subtraction.
func CosineSimAttention(q, k, v *tensor.Matrix, cfg CosineConfig) (*tensor.Matrix, error) {
	return attention.CosineSimAttention(q, k, v, cfg)
}

// Standard computes attention the traditional way, materializing the full
// score matrix. It is the correctness and performance baseline for the
// chunked implementation.
func Standard(q, k, v *tensor.Matrix) (*tensor.Matrix, error) {
	return attention.Standard(q, k, v)
}
