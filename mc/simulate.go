package mc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Factory builds the generator owned by one worker. Workers must not share
// random sources, so factories usually derive the seed from the worker index.
type Factory func(worker int) (*MultiPathGenerator, error)

// Visitor receives every path drawn by a worker. It is called from that
// worker's goroutine and the sample is only valid during the call.
type Visitor func(worker int, s *Sample) error

// Simulate draws paths multipaths split across workers goroutines, each with
// its own generator. The first error stops all workers. The context is
// checked between paths.
func Simulate(ctx context.Context, paths, workers int, newGenerator Factory, visit Visitor) error {
	if paths < 0 {
		return fmt.Errorf("%w: negative path count %d", ErrInvalidConfig, paths)
	}
	if workers < 1 {
		workers = 1
	}
	if workers > paths && paths > 0 {
		workers = paths
	}

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		n := paths / workers
		if w < paths%workers {
			n++
		}
		g.Go(func() error {
			gen, err := newGenerator(w)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			for l := 0; l < n; l++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				s, err := gen.Next()
				if err != nil {
					return fmt.Errorf("worker %d path %d: %w", w, l, err)
				}
				if err := visit(w, s); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
