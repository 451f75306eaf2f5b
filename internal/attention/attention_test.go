package attention

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attnkit/attnkit/internal/tensor"
)

// requireMatrixClose fails the test when the two matrices differ by more
// than tol in any element.
func requireMatrixClose(t *testing.T, want, got *tensor.Matrix, tol float64) {
	t.Helper()
	require.Equal(t, want.Rows(), got.Rows(), "row count")
	require.Equal(t, want.Cols(), got.Cols(), "column count")
	if diff := cmp.Diff(want.Data(), got.Data(), cmpopts.EquateApprox(0, tol)); diff != "" {
		t.Fatalf("matrices differ (-want +got):\n%s", diff)
	}
}

func randomQKV(t *testing.T, qLen, kLen, headDim, vDim int, seed int64) (q, k, v *tensor.Matrix) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	return tensor.RandnSeeded(qLen, headDim, rng),
		tensor.RandnSeeded(kLen, headDim, rng),
		tensor.RandnSeeded(kLen, vDim, rng)
}

func TestAttentionMatchesStandard(t *testing.T) {
	q, k, v := randomQKV(t, 24, 40, 8, 6, 1)

	want, err := Standard(q, k, v)
	require.NoError(t, err)

	// Chunk sizes smaller than, equal to, and larger than the sequence
	// lengths; chunking must never change the result.
	chunkSizes := []struct{ qc, kc int }{
		{1, 1},
		{3, 7},
		{8, 8},
		{24, 40},
		{128, 4096},
	}
	for _, cs := range chunkSizes {
		got, err := Attention(q, k, v, Config{QueryChunkSize: cs.qc, KeyChunkSize: cs.kc})
		require.NoError(t, err, "chunks (%d, %d)", cs.qc, cs.kc)
		requireMatrixClose(t, want, got, 1e-4)
	}
}

func TestAttentionChunkSizeInvariance(t *testing.T) {
	q, k, v := randomQKV(t, 17, 29, 4, 5, 2)

	fine, err := Attention(q, k, v, Config{QueryChunkSize: 1, KeyChunkSize: 1})
	require.NoError(t, err)
	coarse, err := Attention(q, k, v, Config{QueryChunkSize: 17, KeyChunkSize: 29})
	require.NoError(t, err)

	requireMatrixClose(t, coarse, fine, 1e-4)
}

func TestAttentionConcreteScenario(t *testing.T) {
	// Q = K = V, a (4, 2) matrix of small integers, chunked 2/2.
	data := []float32{1, 2, 3, 1, 0, 2, 2, 0}
	m, err := tensor.FromSlice(data, 4, 2)
	require.NoError(t, err)

	got, err := Attention(m, m, m, Config{QueryChunkSize: 2, KeyChunkSize: 2})
	require.NoError(t, err)

	// Direct softmax attention, computed element by element.
	const dim = 2
	scale := 1.0 / math.Sqrt(dim)
	want := tensor.NewMatrix(4, dim)
	for i := 0; i < 4; i++ {
		scores := make([]float64, 4)
		for j := 0; j < 4; j++ {
			for d := 0; d < dim; d++ {
				scores[j] += float64(m.At(i, d)) * float64(m.At(j, d))
			}
			scores[j] *= scale
		}
		maxScore := scores[0]
		for _, s := range scores[1:] {
			maxScore = math.Max(maxScore, s)
		}
		var sum float64
		weights := make([]float64, 4)
		for j, s := range scores {
			weights[j] = math.Exp(s - maxScore)
			sum += weights[j]
		}
		for d := 0; d < dim; d++ {
			var acc float64
			for j := 0; j < 4; j++ {
				acc += weights[j] / sum * float64(m.At(j, d))
			}
			want.Set(float32(acc), i, d)
		}
	}

	requireMatrixClose(t, want, got, 1e-5)
}

func TestAttentionRowAlignment(t *testing.T) {
	q, k, v := randomQKV(t, 8, 12, 4, 4, 3)

	base, err := Attention(q, k, v, Config{QueryChunkSize: 3, KeyChunkSize: 5})
	require.NoError(t, err)

	// Perturbing query row 2 must leave every other output row
	// bit-identical: row i depends only on Q row i and all of K, V.
	perturbed := q.Clone()
	for d := 0; d < perturbed.Cols(); d++ {
		perturbed.Set(perturbed.At(2, d)+10, 2, d)
	}

	got, err := Attention(perturbed, k, v, Config{QueryChunkSize: 3, KeyChunkSize: 5})
	require.NoError(t, err)

	for i := 0; i < base.Rows(); i++ {
		if i == 2 {
			continue
		}
		for d := 0; d < base.Cols(); d++ {
			require.Equal(t, base.At(i, d), got.At(i, d), "row %d col %d changed", i, d)
		}
	}
}

func TestAttentionNonMultipleBoundary(t *testing.T) {
	// query_length=10, query chunk 4: tiles of 4, 4 and a clamped 2.
	// key_length=10, key chunk 3: tiles of 3, 3, 3 and a clamped 1.
	q, k, v := randomQKV(t, 10, 10, 4, 3, 4)

	got, err := Attention(q, k, v, Config{QueryChunkSize: 4, KeyChunkSize: 3})
	require.NoError(t, err)

	require.Equal(t, 10, got.Rows())
	require.Equal(t, 3, got.Cols())

	want, err := Standard(q, k, v)
	require.NoError(t, err)
	requireMatrixClose(t, want, got, 1e-4)
}

func TestAttentionParallelMatchesSequential(t *testing.T) {
	q, k, v := randomQKV(t, 50, 64, 8, 8, 5)

	seq, err := Attention(q, k, v, Config{QueryChunkSize: 7, KeyChunkSize: 9})
	require.NoError(t, err)
	par, err := Attention(q, k, v, Config{QueryChunkSize: 7, KeyChunkSize: 9, Workers: -1})
	require.NoError(t, err)

	// Tiles are independent and write disjoint rows: results are
	// bit-identical, not merely close.
	require.Equal(t, seq.Data(), par.Data())
}

func TestAttentionDoesNotMutateInputs(t *testing.T) {
	q, k, v := randomQKV(t, 6, 9, 3, 3, 6)
	qc, kc, vc := q.Clone(), k.Clone(), v.Clone()

	_, err := Attention(q, k, v, Config{QueryChunkSize: 2, KeyChunkSize: 4})
	require.NoError(t, err)

	require.Equal(t, qc.Data(), q.Data())
	require.Equal(t, kc.Data(), k.Data())
	require.Equal(t, vc.Data(), v.Data())
}

func TestAttentionShapeMismatch(t *testing.T) {
	q := tensor.Randn(4, 8)
	k := tensor.Randn(6, 4) // head_dim mismatch
	v := tensor.Randn(6, 8)

	_, err := Attention(q, k, v, Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	k = tensor.Randn(6, 8)
	v = tensor.Randn(5, 8) // K/V row mismatch
	_, err = Attention(q, k, v, Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestAttentionEmptySequence(t *testing.T) {
	q := tensor.Randn(4, 8)

	_, err := Attention(nil, q, q, Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySequence))

	_, err = Attention(q, nil, nil, Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptySequence))
}

func TestAttentionInvalidConfig(t *testing.T) {
	q, k, v := randomQKV(t, 4, 4, 2, 2, 7)

	_, err := Attention(q, k, v, Config{QueryChunkSize: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = Attention(q, k, v, Config{KeyChunkSize: -8})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestStandardSoftmaxRowsSumToOne(t *testing.T) {
	in := []float32{3, 1, -2, 0.5}
	out := make([]float32, len(in))
	softmaxRow(in, out)

	var sum float64
	for _, v := range out {
		require.GreaterOrEqual(t, v, float32(0))
		sum += float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}
