package tensor

import (
	"fmt"
	"math"
)

// All reductions in this package accumulate in float64 and round once on
// store. The attention kernels depend on this: reduced-precision matmul
// accumulation is what the tiled algorithm's tolerance guarantees assume
// away.

// MatMulT computes a · bᵀ for a (m×d) and b (n×d), producing (m×n).
//
// Both operands index the shared inner dimension d along columns, which is
// the natural layout for attention scores: Q tile (rows are queries) against
// a K tile (rows are keys) without materializing a transposed copy.
//
// Panics if the column counts differ.
func MatMulT(a, b *Matrix) *Matrix {
	if a.cols != b.cols {
		panic(fmt.Sprintf("tensor: MatMulT inner dimension mismatch: (%d, %d) vs (%d, %d)", a.rows, a.cols, b.rows, b.cols))
	}
	out := NewMatrix(a.rows, b.rows)
	for i := 0; i < a.rows; i++ {
		aRow := a.data[i*a.cols : (i+1)*a.cols]
		outRow := out.data[i*out.cols : (i+1)*out.cols]
		for j := 0; j < b.rows; j++ {
			bRow := b.data[j*b.cols : (j+1)*b.cols]
			var sum float64
			for k := range aRow {
				sum += float64(aRow[k]) * float64(bRow[k])
			}
			outRow[j] = float32(sum)
		}
	}
	return out
}

// MatMul computes a · b for a (m×n) and b (n×d), producing (m×d).
//
// Panics if a's column count does not match b's row count.
func MatMul(a, b *Matrix) *Matrix {
	if a.cols != b.rows {
		panic(fmt.Sprintf("tensor: MatMul dimension mismatch: (%d, %d) vs (%d, %d)", a.rows, a.cols, b.rows, b.cols))
	}
	out := NewMatrix(a.rows, b.cols)
	acc := make([]float64, b.cols)
	for i := 0; i < a.rows; i++ {
		aRow := a.data[i*a.cols : (i+1)*a.cols]
		for k := range acc {
			acc[k] = 0
		}
		for j := 0; j < a.cols; j++ {
			aij := float64(aRow[j])
			bRow := b.data[j*b.cols : (j+1)*b.cols]
			for k := range bRow {
				acc[k] += aij * float64(bRow[k])
			}
		}
		outRow := out.data[i*out.cols : (i+1)*out.cols]
		for k := range acc {
			outRow[k] = float32(acc[k])
		}
	}
	return out
}

// Scale returns a new matrix with every element multiplied by s.
func (m *Matrix) Scale(s float32) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, v := range m.data {
		out.data[i] = v * s
	}
	return out
}

// L2NormalizeRows returns a new matrix with every row divided by its
// Euclidean norm plus eps. The epsilon keeps zero rows finite instead of
// producing NaN.
func L2NormalizeRows(m *Matrix, eps float32) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i := 0; i < m.rows; i++ {
		row := m.data[i*m.cols : (i+1)*m.cols]
		var sumSq float64
		for _, v := range row {
			sumSq += float64(v) * float64(v)
		}
		inv := 1.0 / (math.Sqrt(sumSq) + float64(eps))
		outRow := out.data[i*m.cols : (i+1)*m.cols]
		for j, v := range row {
			outRow[j] = float32(float64(v) * inv)
		}
	}
	return out
}
