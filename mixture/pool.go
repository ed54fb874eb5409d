// SPDX-License-Identifier: MIT

package mixture

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// parallelFor splits [0, n) into at most workers contiguous chunks and runs fn
// on each. With workers <= 1 it runs fn(0, n) on the calling goroutine.
// Chunks never overlap, so fn may write the slots it owns without locking.
// A panic inside fn is returned as an error wrapping ErrInvariant.
func parallelFor(ctx context.Context, workers, n int, fn func(lo, hi int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 1 || n == 1 {
		if err := ctx.Err(); err != nil {
			return err
		}

		return safeCall(func() error { return fn(0, n) })
	}

	chunks := min(workers, n)
	size := (n + chunks - 1) / chunks
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += size {
		lo := lo
		hi := min(lo+size, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return safeCall(func() error { return fn(lo, hi) })
		})
	}

	return g.Wait()
}

func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: worker panic: %v", ErrInvariant, r)
		}
	}()

	return fn()
}
