package controller

import (
	"context"
	"sync"
)

// joinAll runs fn for every item in its own goroutine and waits for all of
// them. errs[i] is the outcome for items[i]. One failure never cancels the
// others.
func joinAll[T any](ctx context.Context, items []T, fn func(context.Context, T) error) []error {
	errs := make([]error, len(items))
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = fn(ctx, items[i])
		}(i)
	}
	wg.Wait()
	return errs
}
