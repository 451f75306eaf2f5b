package attention

import (
	"math/rand"
	"testing"

	"github.com/attnkit/attnkit/internal/tensor"
)

func benchQKV(b *testing.B, seqLen, headDim int) (q, k, v *tensor.Matrix) {
	b.Helper()
	rng := rand.New(rand.NewSource(1))
	return tensor.RandnSeeded(seqLen, headDim, rng),
		tensor.RandnSeeded(seqLen, headDim, rng),
		tensor.RandnSeeded(seqLen, headDim, rng)
}

func BenchmarkAttentionChunked(b *testing.B) {
	q, k, v := benchQKV(b, 512, 64)
	cfg := Config{QueryChunkSize: 64, KeyChunkSize: 128}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Attention(q, k, v, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAttentionChunkedParallel(b *testing.B) {
	q, k, v := benchQKV(b, 512, 64)
	cfg := Config{QueryChunkSize: 64, KeyChunkSize: 128, Workers: -1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Attention(q, k, v, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAttentionStandard(b *testing.B) {
	q, k, v := benchQKV(b, 512, 64)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Standard(q, k, v); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCosineSimAttention(b *testing.B) {
	q, k, v := benchQKV(b, 512, 64)
	cfg := CosineConfig{Config: Config{QueryChunkSize: 64, KeyChunkSize: 128}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := CosineSimAttention(q, k, v, cfg); err != nil {
			b.Fatal(err)
		}
	}
}
