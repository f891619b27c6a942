// Package parallel contains the bounded worker pools used for tokenisation and inference,
// and a hasher digesting values produced out of order by those pools.
package parallel

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// ForEachErr is ForEach for bodies that can fail. The first error cancels the context
// handed to the remaining bodies and is returned as is. Iterations not yet started when
// the context is done are skipped.
func ForEachErr(ctx context.Context, length, limit int, body func(ctx context.Context, i int) error) error {
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < length; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return body(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
