// Package parallel runs bounded fan-out work against slices.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map runs fn over every input with at most limit calls in flight. Results
// are index-aligned with inputs. The first error cancels the remaining work
// and is returned; partial results are discarded.
func Map[T, R any](ctx context.Context, limit int, inputs []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]R, len(inputs))
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			r, err := fn(ctx, in)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
