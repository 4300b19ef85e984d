package export

import (
	"context"

	"gitlab.gbv.de/nationallizenzen/nl-export/util/logger"
	"golang.org/x/sync/errgroup"
)

// Result holds either the value or the error fn produced for one input.
type Result[R any] struct {
	Value R
	Err   error
}

// ParallelMap runs fn over items on at most workers goroutines.
// Result i always belongs to items[i]. A failing item does not stop
// the others. Once ctx is cancelled, items that have not started yet
// fail with ctx.Err(). Progress is incremented once per item.
func ParallelMap[T, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) (R, error), progress logger.ProgressReporter) []Result[R] {
	if workers < 1 {
		workers = 1
	}
	if progress == nil {
		progress = logger.NopProgress{}
	}
	results := make([]Result[R], len(items))
	g := &errgroup.Group{}
	g.SetLimit(workers)
	for i := range items {
		i := i
		g.Go(func() error {
			defer progress.Increment()
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Value, results[i].Err = fn(ctx, items[i])
			return nil
		})
	}
	g.Wait()
	return results
}
