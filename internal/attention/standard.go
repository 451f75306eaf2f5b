package attention

import (
	"math"

	"github.com/attnkit/attnkit/internal/tensor"
)

// Standard computes attention the traditional way.
//
// Memory: O(query_length × key_length) - materializes the full score
// matrix. It exists as the correctness reference for the chunked
// implementation and is what the tests and the bench command compare
// against.
func Standard(q, k, v *tensor.Matrix) (*tensor.Matrix, error) {
	if err := validateInputs(q, k, v); err != nil {
		return nil, err
	}

	scale := float32(1.0 / math.Sqrt(float64(q.Cols())))
	scores := tensor.MatMulT(q.Scale(scale), k)

	weights := tensor.NewMatrix(scores.Rows(), scores.Cols())
	for i := 0; i < scores.Rows(); i++ {
		softmaxRow(scores.Row(i), weights.Row(i))
	}
	return tensor.MatMul(weights, v), nil
}

// softmaxRow writes softmax(in) to out with max subtraction.
func softmaxRow(in, out []float32) {
	maxVal := in[0]
	for _, v := range in[1:] {
		if v > maxVal {
			maxVal = v
		}
	}

	var sum float64
	for i, v := range in {
		e := math.Exp(float64(v - maxVal))
		out[i] = float32(e)
		sum += e
	}

	inv := 1.0 / sum
	for i := range out {
		out[i] = float32(float64(out[i]) * inv)
	}
}
