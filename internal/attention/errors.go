package attention

import (
	"errors"
	"fmt"

	"github.com/attnkit/attnkit/internal/tensor"
)

var (
	// ErrShapeMismatch reports Q/K/V matrices whose dimensions do not
	// describe one attention problem.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrEmptySequence reports a zero-length query or key sequence.
	// The reduction is undefined on empty key ranges (an empty sum
	// followed by a division), so empty inputs are rejected up front
	// instead of propagating NaN.
	ErrEmptySequence = errors.New("empty sequence")

	// ErrInvalidConfig reports a config with negative chunk sizes or a
	// non-positive scale or epsilon.
	ErrInvalidConfig = errors.New("invalid config")
)

// validateInputs checks that q (queries), k (keys) and v (values) form a
// well-posed attention problem: q and k agree on head_dim, and k and v are
// row-aligned.
func validateInputs(q, k, v *tensor.Matrix) error {
	if q == nil || q.Rows() == 0 {
		return fmt.Errorf("%w: query length is zero", ErrEmptySequence)
	}
	if k == nil || k.Rows() == 0 || v == nil || v.Rows() == 0 {
		return fmt.Errorf("%w: key length is zero", ErrEmptySequence)
	}
	if q.Cols() != k.Cols() {
		return fmt.Errorf("%w: query head_dim %d != key head_dim %d", ErrShapeMismatch, q.Cols(), k.Cols())
	}
	if k.Rows() != v.Rows() {
		return fmt.Errorf("%w: %d key rows vs %d value rows", ErrShapeMismatch, k.Rows(), v.Rows())
	}
	return nil
}
