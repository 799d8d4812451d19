// Package parallel splits index ranges across goroutines. Callers write
// results into pre-sized slices by index so output order never depends on
// scheduling.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into contiguous chunks, one per worker, and calls
// fn(start, end) for each chunk concurrently. workers <= 0 means one per CPU.
func Parallelize(items, workers int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items
	}

	chunkSize := (items + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when
// items <= threshold and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items, threshold, workers int, fn func(start, end int)) {
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, workers, fn)
}

// ForEach calls fn(i) for every i in [0, items) and returns the first error
// by index, not by completion time.
func ForEach(items, workers int, fn func(i int) error) error {
	errs := make([]error, items)
	Parallelize(items, workers, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = fn(i)
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
