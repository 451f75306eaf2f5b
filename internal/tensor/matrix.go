package tensor

import "fmt"

// Matrix is a dense row-major float32 matrix.
//
// Matrices are the only data structure the attention kernels operate on:
// queries, keys, values, per-tile statistics and outputs are all 2D. The
// data layout is a single flat slice, row i occupying
// data[i*cols : (i+1)*cols].
//
// Row slicing is zero-copy: RowSlice and Row return views sharing the
// underlying slice. Arithmetic operations (see ops.go) never mutate their
// inputs and always allocate fresh output matrices.
type Matrix struct {
	rows, cols int
	data       []float32
}

// NewMatrix creates a zero-filled rows×cols matrix.
// Panics if either dimension is not positive.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("tensor: invalid matrix shape (%d, %d)", rows, cols))
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float32, rows*cols),
	}
}

// FromSlice creates a rows×cols matrix from a flat row-major slice.
// The slice is used directly (not copied).
func FromSlice(data []float32, rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("shape (%d, %d) is not a valid matrix shape", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("shape (%d, %d) requires %d elements, but got %d", rows, cols, rows*cols, len(data))
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Data returns the flat row-major backing slice (zero-copy).
//
// WARNING: modifications to the returned slice modify the matrix.
func (m *Matrix) Data() []float32 { return m.data }

// At returns the element at row i, column j.
// Panics if the indices are out of bounds.
func (m *Matrix) At(i, j int) float32 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("tensor: index (%d, %d) out of bounds for shape (%d, %d)", i, j, m.rows, m.cols))
	}
	return m.data[i*m.cols+j]
}

// Set sets the element at row i, column j.
// Panics if the indices are out of bounds.
func (m *Matrix) Set(value float32, i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("tensor: index (%d, %d) out of bounds for shape (%d, %d)", i, j, m.rows, m.cols))
	}
	m.data[i*m.cols+j] = value
}

// Row returns row i as a zero-copy slice of length Cols.
func (m *Matrix) Row(i int) []float32 {
	if i < 0 || i >= m.rows {
		panic(fmt.Sprintf("tensor: row %d out of bounds for shape (%d, %d)", i, m.rows, m.cols))
	}
	return m.data[i*m.cols : (i+1)*m.cols]
}

// RowSlice returns a zero-copy view of up to n rows starting at row start.
//
// The request is clamped to the matrix bounds: a slice extending past the
// last row is truncated rather than read out of bounds, and rows are never
// duplicated. This is the boundary behavior the tiled attention kernels
// rely on when a sequence length is not a multiple of the chunk size.
//
// Panics if start is out of range or n is not positive.
func (m *Matrix) RowSlice(start, n int) *Matrix {
	if start < 0 || start >= m.rows {
		panic(fmt.Sprintf("tensor: row slice start %d out of bounds for %d rows", start, m.rows))
	}
	if n <= 0 {
		panic(fmt.Sprintf("tensor: row slice length %d must be positive", n))
	}
	end := min(start+n, m.rows)
	return &Matrix{
		rows: end - start,
		cols: m.cols,
		data: m.data[start*m.cols : end*m.cols],
	}
}

// Clone returns a deep copy of the matrix.
func (m *Matrix) Clone() *Matrix {
	out := NewMatrix(m.rows, m.cols)
	copy(out.data, m.data)
	return out
}

// String returns a human-readable description of the matrix.
func (m *Matrix) String() string {
	return fmt.Sprintf("Matrix(%d, %d)", m.rows, m.cols)
}
