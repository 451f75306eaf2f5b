package attention

import (
	"github.com/attnkit/attnkit/internal/tensor"
)

// CosineSimAttention computes cosine-similarity attention with the same
// tiled structure as Attention.
//
// Q and K rows are L2-normalized before scoring, so every score is a
// cosine similarity in [-1, 1] scaled by a fixed temperature. Bounded
// scores need no max subtraction, which removes the running-max
// bookkeeping from the tile fold entirely.
//
// Shapes and purity guarantees match Attention.
func CosineSimAttention(q, k, v *tensor.Matrix, cfg CosineConfig) (*tensor.Matrix, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := validateInputs(q, k, v); err != nil {
		return nil, err
	}

	qn := tensor.L2NormalizeRows(q, cfg.Eps)
	kn := tensor.L2NormalizeRows(k, cfg.Eps)

	out := tensor.NewMatrix(q.Rows(), v.Cols())
	err = forEachQueryTile(q.Rows(), cfg.Config, func(start int) error {
		qt := qn.RowSlice(start, cfg.QueryChunkSize)
		res := queryChunkCosineSim(qt, kn, v, cfg.KeyChunkSize, cfg.Scale)
		copy(out.Data()[start*out.Cols():(start+res.Rows())*out.Cols()], res.Data())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// queryChunkCosineSim reduces one normalized query tile against the full
// key range by plain summation over tiles.
func queryChunkCosineSim(qt, k, v *tensor.Matrix, keyChunkSize int, scale float32) *tensor.Matrix {
	keyChunkSize = min(keyChunkSize, k.Rows())

	fold := newSumFold(qt.Rows(), v.Cols())
	for start := 0; start < k.Rows(); start += keyChunkSize {
		kt := k.RowSlice(start, keyChunkSize)
		vt := v.RowSlice(start, keyChunkSize)
		fold.fold(summarizeCosineTile(qt, kt, vt, scale))
	}
	return fold.result()
}

// summarizeCosineTile computes the local statistics for one key/value
// tile of the cosine pipeline.
//
// Deliberate asymmetry: the value sum folds V with the raw scaled scores
// while the weight sum uses the exponentiated scores. This reproduces the
// cosine-sim variant of lucidrains/flash-attention-jax as published; do
// not "fix" one side to match the other.
func summarizeCosineTile(qt, kt, vt *tensor.Matrix, scale float32) tileStats {
	scores := tensor.MatMulT(qt, kt).Scale(scale)
	expScores := exp(scores)
	return tileStats{
		values:  tensor.MatMul(scores, vt),
		weights: rowSum(expScores),
	}
}
