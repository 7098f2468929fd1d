package concurrent

import (
	"context"

	"github.com/etomica/etomica/pkg/sequence"
	"golang.org/x/sync/errgroup"
)

// ForEach runs action for each element of the iterator in its own goroutine,
// at most limit at a time (limit <= 0 means unbounded). It returns the first
// error; the context passed to the remaining actions is cancelled on error.
func ForEach[T any](ctx context.Context, it *sequence.Iterator[T], limit int, action func(context.Context, T) error) error {
	group, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		group.SetLimit(limit)
	}

	next, stop := it.Pull()
	defer stop()

	for {
		value, valid := next()
		if !valid {
			break
		}
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			return action(gctx, value)
		})
	}

	return group.Wait()
}
