package encryption

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// minParallelBlocks is the smallest buffer, in blocks, that is split across workers.
const minParallelBlocks = 64

// forEachSpan calls fn on contiguous block ranges [first, last) covering total blocks.
// With more than one worker and a large enough buffer the ranges run concurrently.
// Panics raised by the primitive are returned as errors.
func forEachSpan(total, workers int, fn func(first, last int) error) error {
	if workers <= 1 || total < minParallelBlocks {
		return guarded(fn, 0, total)
	}

	size := (total + workers - 1) / workers

	group := errgroup.Group{}
	group.SetLimit(workers)

	for first := 0; first < total; first += size {
		last := min(first+size, total)

		group.Go(func() error {
			return guarded(fn, first, last)
		})
	}

	return group.Wait() //nolint:wrapcheck // errors are already wrapped by guarded
}

func guarded(fn func(first, last int) error, first, last int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: blocks %d-%d: %v", ErrPrimitive, first, last, r)
		}
	}()

	return fn(first, last)
}
