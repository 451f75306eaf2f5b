// Package attention implements memory-efficient scaled dot-product
// attention over long sequences.
//
// Instead of materializing the full (query_length × key_length) score
// matrix, the computation is tiled: an outer driver walks query tiles, and
// for each query tile an inner reducer walks key/value tiles, keeping only
// one (query_chunk × key_chunk) score block live at a time. Per-tile
// unnormalized outputs and normalizers are combined into the exact global
// softmax result by online rescaling against a running rowwise max.
//
// Reference: "Self-attention Does Not Need O(n²) Memory",
// Rabe & Staats, 2021 (https://arxiv.org/abs/2112.05682)
package attention

import (
	"math"

	"github.com/attnkit/attnkit/internal/parallel"
	"github.com/attnkit/attnkit/internal/tensor"
)

// Attention computes softmax(Q·Kᵀ/sqrt(head_dim))·V without ever holding
// the full attention matrix.
//
// Shapes: q is (query_length × head_dim), k is (key_length × head_dim),
// v is (key_length × value_dim); the output is (query_length × value_dim).
// Inputs are never mutated. Peak memory for the score intermediate is
// O(QueryChunkSize × KeyChunkSize) regardless of sequence lengths, and the
// result matches the unchunked computation for any chunk sizes.
func Attention(q, k, v *tensor.Matrix, cfg Config) (*tensor.Matrix, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := validateInputs(q, k, v); err != nil {
		return nil, err
	}

	// Pre-scale once, before tiling.
	scaled := q.Scale(float32(1.0 / math.Sqrt(float64(q.Cols()))))

	out := tensor.NewMatrix(q.Rows(), v.Cols())
	err = forEachQueryTile(q.Rows(), cfg, func(start int) error {
		qt := scaled.RowSlice(start, cfg.QueryChunkSize)
		res := queryChunkAttention(qt, k, v, cfg.KeyChunkSize)
		copy(out.Data()[start*out.Cols():(start+res.Rows())*out.Cols()], res.Data())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// forEachQueryTile invokes f with the starting row of every query tile.
// Tiles are independent, so they run sequentially or across workers with
// identical results; each writes a disjoint row range of the output.
func forEachQueryTile(qLen int, cfg Config, f func(start int) error) error {
	numTiles := (qLen + cfg.QueryChunkSize - 1) / cfg.QueryChunkSize
	return parallel.For(numTiles, cfg.Workers, func(i int) error {
		return f(i * cfg.QueryChunkSize)
	})
}

// queryChunkAttention reduces one query tile against the full key range,
// producing the tile's normalized output. Equivalent to unchunked
// attention between qt and all of k, v; chunking over keys is purely a
// memory optimization.
func queryChunkAttention(qt, k, v *tensor.Matrix, keyChunkSize int) *tensor.Matrix {
	keyChunkSize = min(keyChunkSize, k.Rows())

	fold := newSoftmaxFold(qt.Rows(), v.Cols())
	for start := 0; start < k.Rows(); start += keyChunkSize {
		kt := k.RowSlice(start, keyChunkSize)
		vt := v.RowSlice(start, keyChunkSize)
		fold.fold(summarizeKeyTile(qt, kt, vt))
	}
	return fold.result()
}

// summarizeKeyTile computes the local statistics for one key/value tile:
// the max-stabilized exponentiated scores folded into an unnormalized
// value sum, the matching weight sum, and the tile's rowwise max.
//
// The rowwise max is a numeric stabilizer only. A reverse-mode
// implementation layered on top of this must treat it as a constant and
// keep gradients flowing through the exponentials and sums alone.
func summarizeKeyTile(qt, kt, vt *tensor.Matrix) tileStats {
	scores := tensor.MatMulT(qt, kt)
	maxes := rowMax(scores)
	expScores := expSub(scores, maxes)
	return tileStats{
		values:  tensor.MatMul(expScores, vt),
		weights: rowSum(expScores),
		maxes:   maxes,
	}
}
