// Package parallel runs batches of independent I/O-bound lookups with a
// bounded worker pool and per-call timeout/fallback semantics.
package parallel

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Map runs fn over every input with at most limit workers. Each call gets its
// own timeout-bounded context; when fn fails or times out the corresponding
// output slot holds fallback instead. The output preserves input order and
// Map itself never fails — per-item degradation is the point.
func Map[In, Out any](ctx context.Context, inputs []In, limit int, timeout time.Duration, fallback Out, fn func(context.Context, In) (Out, error)) []Out {
	outputs := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return outputs
	}
	if limit <= 0 {
		limit = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, in := range inputs {
		g.Go(func() error {
			callCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			out, err := fn(callCtx, in)
			if err != nil {
				outputs[i] = fallback
				return nil
			}
			outputs[i] = out
			return nil
		})
	}

	// Workers never return errors, so this only waits for completion.
	_ = g.Wait()
	return outputs
}
