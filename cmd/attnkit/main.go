// Package main provides the AttnKit CLI.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/attnkit/attnkit/attention"
	"github.com/attnkit/attnkit/tensor"
)

const version = "v0.1.0-dev"

func main() {
	root := &cobra.Command{
		Use:           "attnkit",
		Short:         "Memory-efficient streaming attention kernels",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), benchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("AttnKit %s\n", version)
		},
	}
}

type benchOptions struct {
	seqLen     int
	headDim    int
	valueDim   int
	queryChunk int
	keyChunk   int
	workers    int
	cosine     bool
}

func benchCmd() *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time chunked attention against the standard computation",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBench(opts)
		},
	}

	cmd.Flags().IntVar(&opts.seqLen, "seq-len", 2048, "query and key sequence length")
	cmd.Flags().IntVar(&opts.headDim, "head-dim", 64, "head dimension")
	cmd.Flags().IntVar(&opts.valueDim, "value-dim", 64, "value dimension")
	cmd.Flags().IntVar(&opts.queryChunk, "query-chunk", attention.DefaultQueryChunkSize, "query chunk size")
	cmd.Flags().IntVar(&opts.keyChunk, "key-chunk", attention.DefaultKeyChunkSize, "key chunk size")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "query-tile workers (0 sequential, -1 GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.cosine, "cosine", false, "benchmark the cosine-similarity pipeline")

	return cmd
}

func runBench(opts benchOptions) error {
	q := tensor.Randn(opts.seqLen, opts.headDim)
	k := tensor.Randn(opts.seqLen, opts.headDim)
	v := tensor.Randn(opts.seqLen, opts.valueDim)

	cfg := attention.Config{
		QueryChunkSize: opts.queryChunk,
		KeyChunkSize:   opts.keyChunk,
		Workers:        opts.workers,
	}

	var (
		chunked *tensor.Matrix
		err     error
	)
	start := time.Now()
	if opts.cosine {
		chunked, err = attention.CosineSimAttention(q, k, v, attention.CosineConfig{Config: cfg})
	} else {
		chunked, err = attention.Attention(q, k, v, cfg)
	}
	if err != nil {
		return err
	}
	chunkedTime := time.Since(start)

	fmt.Printf("seq_len=%d head_dim=%d value_dim=%d chunks=(%d, %d) workers=%d\n",
		opts.seqLen, opts.headDim, opts.valueDim, opts.queryChunk, opts.keyChunk, opts.workers)
	fmt.Printf("chunked:  %v\n", chunkedTime)

	if opts.cosine {
		// No unchunked baseline is exported for the cosine pipeline.
		return nil
	}

	start = time.Now()
	standard, err := attention.Standard(q, k, v)
	if err != nil {
		return err
	}
	fmt.Printf("standard: %v\n", time.Since(start))

	var maxDiff float64
	for i, want := range standard.Data() {
		diff := math.Abs(float64(want - chunked.Data()[i]))
		if diff > maxDiff {
			maxDiff = diff
		}
	}
	fmt.Printf("max abs diff: %.3g\n", maxDiff)
	return nil
}
