package attention

import "fmt"

// Default chunk sizes. Queries are tiled finer than keys because each
// query tile holds a full (query_chunk × key_chunk) score block live while
// reducing.
const (
	DefaultQueryChunkSize = 1024
	DefaultKeyChunkSize   = 4096

	// DefaultScale is the fixed temperature applied to cosine-similarity
	// scores before exponentiation.
	DefaultScale = 16

	// DefaultEps guards the row norms in the cosine pipeline against
	// division by zero.
	DefaultEps = 1e-5
)

// Config controls the chunked attention computation.
//
// The zero value is usable: zero chunk sizes take the defaults and
// Workers = 0 processes query tiles sequentially.
type Config struct {
	// QueryChunkSize is the number of query rows per tile.
	// 0 means DefaultQueryChunkSize.
	QueryChunkSize int

	// KeyChunkSize is the number of key/value rows per tile.
	// 0 means DefaultKeyChunkSize.
	KeyChunkSize int

	// Workers bounds the goroutines used across query tiles, which are
	// fully independent. 0 or 1 runs sequentially; a negative value uses
	// GOMAXPROCS. The result does not depend on this setting.
	Workers int
}

func (c Config) withDefaults() (Config, error) {
	if c.QueryChunkSize == 0 {
		c.QueryChunkSize = DefaultQueryChunkSize
	}
	if c.KeyChunkSize == 0 {
		c.KeyChunkSize = DefaultKeyChunkSize
	}
	if c.QueryChunkSize < 0 || c.KeyChunkSize < 0 {
		return c, fmt.Errorf("%w: chunk sizes must be positive, got query %d key %d",
			ErrInvalidConfig, c.QueryChunkSize, c.KeyChunkSize)
	}
	return c, nil
}

// CosineConfig controls the cosine-similarity attention computation.
//
// The zero value is usable; Scale and Eps of 0 take DefaultScale and
// DefaultEps.
type CosineConfig struct {
	Config

	// Scale is the fixed temperature multiplied into the cosine scores.
	// Because the scores are bounded in [-1, 1] after row normalization,
	// exp(Scale * score) needs no max subtraction to stay finite.
	Scale float32

	// Eps is added to each row norm during L2 normalization.
	Eps float32
}

func (c CosineConfig) withDefaults() (CosineConfig, error) {
	base, err := c.Config.withDefaults()
	if err != nil {
		return c, err
	}
	c.Config = base
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	if c.Eps == 0 {
		c.Eps = DefaultEps
	}
	if c.Scale < 0 || c.Eps < 0 {
		return c, fmt.Errorf("%w: scale and eps must be positive, got scale %v eps %v",
			ErrInvalidConfig, c.Scale, c.Eps)
	}
	return c, nil
}
