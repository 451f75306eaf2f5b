package attention

import (
	"math"

	"github.com/attnkit/attnkit/internal/tensor"
)

// tileStats holds the local statistics computed for one key/value tile
// against one query tile.
//
// values and weights are unnormalized: values is the weighted value sum
// (query_rows × value_dim) and weights the matching weight sum per query
// row. For the softmax pipeline the weights are relative to the tile's own
// rowwise max, recorded in maxes; the cosine pipeline leaves maxes nil.
type tileStats struct {
	values  *tensor.Matrix
	weights []float32
	maxes   []float32
}

// softmaxFold combines tile statistics into one normalized output using
// online rescaling.
//
// Folding a tile whose max exceeds the running max rescales everything
// accumulated so far by exp(old_max - new_max); a tile below the running
// max is scaled down on its way in. Every tile therefore ends up weighted
// by exp(tile_max - global_max), exactly as if the global max had been
// known up front, which makes the fold associative and commutative: tiles
// may arrive in any order.
//
// Accumulation is kept in float64 so the tile sums lose no precision
// before the final division.
type softmaxFold struct {
	qRows, vDim int
	maxes       []float32 // running rowwise max across folded tiles
	weights     []float64
	values      []float64 // qRows × vDim, row-major
}

func newSoftmaxFold(qRows, vDim int) *softmaxFold {
	maxes := make([]float32, qRows)
	for i := range maxes {
		maxes[i] = float32(math.Inf(-1))
	}
	return &softmaxFold{
		qRows:   qRows,
		vDim:    vDim,
		maxes:   maxes,
		weights: make([]float64, qRows),
		values:  make([]float64, qRows*vDim),
	}
}

// fold absorbs one tile's statistics, rescaling whichever side is below
// the new running max.
func (f *softmaxFold) fold(s tileStats) {
	if s.values.Rows() != f.qRows || s.values.Cols() != f.vDim {
		panic("attention: tile statistics shape mismatch")
	}
	for i := 0; i < f.qRows; i++ {
		newMax := max(f.maxes[i], s.maxes[i])
		prev := math.Exp(float64(f.maxes[i] - newMax))
		tile := math.Exp(float64(s.maxes[i] - newMax))

		f.weights[i] = f.weights[i]*prev + float64(s.weights[i])*tile

		row := s.values.Row(i)
		acc := f.values[i*f.vDim : (i+1)*f.vDim]
		for j := range acc {
			acc[j] = acc[j]*prev + float64(row[j])*tile
		}
		f.maxes[i] = newMax
	}
}

// result divides the accumulated value sums by the accumulated weight
// sums. Safe once at least one tile has been folded: exp is strictly
// positive, so every weight sum is > 0.
func (f *softmaxFold) result() *tensor.Matrix {
	out := tensor.NewMatrix(f.qRows, f.vDim)
	data := out.Data()
	for i := 0; i < f.qRows; i++ {
		inv := 1.0 / f.weights[i]
		row := f.values[i*f.vDim : (i+1)*f.vDim]
		for j, v := range row {
			data[i*f.vDim+j] = float32(v * inv)
		}
	}
	return out
}

// sumFold combines tile statistics by plain summation, for the cosine
// pipeline where bounded scores make rescaling unnecessary.
type sumFold struct {
	qRows, vDim int
	weights     []float64
	values      []float64
}

func newSumFold(qRows, vDim int) *sumFold {
	return &sumFold{
		qRows:   qRows,
		vDim:    vDim,
		weights: make([]float64, qRows),
		values:  make([]float64, qRows*vDim),
	}
}

func (f *sumFold) fold(s tileStats) {
	if s.values.Rows() != f.qRows || s.values.Cols() != f.vDim {
		panic("attention: tile statistics shape mismatch")
	}
	for i := 0; i < f.qRows; i++ {
		f.weights[i] += float64(s.weights[i])
		row := s.values.Row(i)
		acc := f.values[i*f.vDim : (i+1)*f.vDim]
		for j := range acc {
			acc[j] += float64(row[j])
		}
	}
}

func (f *sumFold) result() *tensor.Matrix {
	out := tensor.NewMatrix(f.qRows, f.vDim)
	data := out.Data()
	for i := 0; i < f.qRows; i++ {
		inv := 1.0 / f.weights[i]
		row := f.values[i*f.vDim : (i+1)*f.vDim]
		for j, v := range row {
			data[i*f.vDim+j] = float32(v * inv)
		}
	}
	return out
}

// rowMax returns the rowwise maximum of m.
func rowMax(m *tensor.Matrix) []float32 {
	out := make([]float32, m.Rows())
	for i := range out {
		row := m.Row(i)
		best := row[0]
		for _, v := range row[1:] {
			if v > best {
				best = v
			}
		}
		out[i] = best
	}
	return out
}

// rowSum returns the rowwise sum of m, accumulated in float64.
func rowSum(m *tensor.Matrix) []float32 {
	out := make([]float32, m.Rows())
	for i := range out {
		var sum float64
		for _, v := range m.Row(i) {
			sum += float64(v)
		}
		out[i] = float32(sum)
	}
	return out
}

// expSub returns exp(m[i][j] - sub[i]) elementwise.
func expSub(m *tensor.Matrix, sub []float32) *tensor.Matrix {
	out := tensor.NewMatrix(m.Rows(), m.Cols())
	for i := 0; i < m.Rows(); i++ {
		row := m.Row(i)
		outRow := out.Row(i)
		for j, v := range row {
			outRow[j] = float32(math.Exp(float64(v - sub[i])))
		}
	}
	return out
}

// exp returns exp(m) elementwise.
func exp(m *tensor.Matrix) *tensor.Matrix {
	out := tensor.NewMatrix(m.Rows(), m.Cols())
	in, data := m.Data(), out.Data()
	for i, v := range in {
		data[i] = float32(math.Exp(float64(v)))
	}
	return out
}
