// Package parallel provides bounded parallel execution over independent
// work items.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// For executes f(i) for i in [0, n) and returns the first error.
//
// workers bounds the number of concurrent goroutines: 0 or 1 runs
// sequentially, a negative value uses GOMAXPROCS. Work items must be
// independent; no ordering is guaranteed on the parallel path.
func For(n, workers int, f func(i int) error) error {
	if workers < 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i // per-iteration copy; go directive is below 1.22
		g.Go(func() error { return f(i) })
	}
	return g.Wait()
}
