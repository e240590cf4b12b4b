// Package workpool provides a small bounded-concurrency helper shared by
// the components that fan work out across CPUs: project-input listing
// across source roots runs through Run, and plugin resolution bounds its
// own errgroup with Size.
package workpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Size returns the default worker count: 4x the number of CPUs, capped
// at 32, matching the "generous but bounded" fan-out the teacher uses
// for its own parallel thread-pool helper.
func Size() int {
	n := runtime.NumCPU() * 4
	if n > 32 {
		return 32
	}
	if n < 1 {
		return 1
	}
	return n
}

// Run executes fn once per item in items, bounded at Size() concurrent
// goroutines, and returns the first error encountered (if any),
// cancelling the remaining work via ctx.
func Run[T any](ctx context.Context, items []T, fn func(context.Context, T) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(Size())
	for _, item := range items {
		item := item
		group.Go(func() error {
			return fn(groupCtx, item)
		})
	}
	return group.Wait()
}
