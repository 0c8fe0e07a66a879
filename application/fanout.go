package application

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// settled is the outcome of one fan-out task
type settled[T any] struct {
	Value T
	Err   error
}

// settleAll runs task for every index concurrently and waits for all of them.
// A failing or panicking task never cancels its siblings; every outcome is
// reported in index order.
func settleAll[T any](n int, task func(i int) (T, error)) []settled[T] {
	results := make([]settled[T], n)

	var group errgroup.Group
	for i := 0; i < n; i++ {
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = settled[T]{Err: fmt.Errorf("task panicked: %v", r)}
				}
			}()
			value, err := task(i)
			results[i] = settled[T]{Value: value, Err: err}
			return nil
		})
	}
	_ = group.Wait()

	return results
}
