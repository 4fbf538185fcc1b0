// Package batch fans work out over a slice in bounded groups.
package batch

import (
	"context"
	"sync"
)

// DefaultSize bounds how many calls a Map has in flight at once.
const DefaultSize = 5

// Map calls fn for every item and returns the results in input order.
//
// Items are processed in consecutive groups of size, the calls within a group
// run concurrently and the next group starts only once every call of the
// current one has returned. A failed call is replaced by fallback(item, err)
// and never fails its group. Once ctx is done, items that have not started
// yet go straight to fallback with ctx.Err().
func Map[In, Out any](
	ctx context.Context,
	items []In,
	size int,
	fn func(ctx context.Context, item In) (Out, error),
	fallback func(item In, err error) Out,
) []Out {
	if size <= 0 {
		size = DefaultSize
	}

	out := make([]Out, len(items))
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))

		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				out[i] = fallback(items[i], err)
			}
			return out
		}

		wg := sync.WaitGroup{}
		for i := start; i < end; i++ {
			wg.Add(1)
			i := i
			go func() {
				defer wg.Done()

				result, err := fn(ctx, items[i])
				if err != nil {
					out[i] = fallback(items[i], err)
					return
				}
				out[i] = result
			}()
		}
		wg.Wait()
	}
	return out
}
