// Copyright 2026 AttnKit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package attention provides memory-efficient scaled dot-product
// attention over long sequences.
//
// # Overview
//
// Standard attention materializes a (query_length × key_length) score
// matrix before the softmax, which makes its peak memory quadratic in the
// sequence length. This package computes the identical result in tiles:
// an outer driver walks query chunks, an inner reducer walks key/value
// chunks, and per-tile partial results are combined exactly by online
// rescaling against a running rowwise max. Peak memory for the score
// intermediate is O(QueryChunkSize × KeyChunkSize) regardless of sequence
// length.
//
// Reference: "Self-attention Does Not Need O(n²) Memory",
// Rabe & Staats, 2021 (https://arxiv.org/abs/2112.05682)
//
// # Basic Usage
//
//	import (
//	    "github.com/attnkit/attnkit/attention"
//	    "github.com/attnkit/attnkit/tensor"
//	)
//
//	q := tensor.Randn(16384, 64) // (query_length, head_dim)
//	k := tensor.Randn(16384, 64) // (key_length, head_dim)
//	v := tensor.Randn(16384, 64) // (key_length, value_dim)
//
//	out, err := attention.Attention(q, k, v, attention.Config{
//	    QueryChunkSize: 1024,
//	    KeyChunkSize:   4096,
//	})
//
// # Pipelines
//
// Two variants share the tiled structure:
//
//   - Attention: softmax attention with per-tile max subtraction and
//     online rescaling across key tiles.
//   - CosineSimAttention: rows of Q and K are L2-normalized first, so
//     scores are bounded cosine similarities scaled by a fixed
//     temperature and no max bookkeeping is needed.
//
// # Properties
//
// Both entry points are pure functions: inputs are never mutated, and the
// output is independent of chunk sizes and of the Workers setting (query
// tiles are data-independent and may be processed in parallel). All
// computations accumulate in float64 before rounding to float32 output.
package attention
