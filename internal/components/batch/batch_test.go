package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}

	var mu sync.Mutex
	var completion []int
	out := Map(context.Background(), items, 5, func(ctx context.Context, item int) (string, error) {
		// later items in a group finish first
		time.Sleep(time.Duration(5-item%5) * 3 * time.Millisecond)
		mu.Lock()
		completion = append(completion, item)
		mu.Unlock()
		return fmt.Sprintf("item-%d", item), nil
	}, func(item int, err error) string {
		return "fallback"
	})

	require.Len(t, out, 12)
	for i, v := range out {
		require.Equal(t, fmt.Sprintf("item-%d", i), v)
	}
	require.NotEqual(t, items, completion)
}

func TestMapGroupsAreSequential(t *testing.T) {
	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}

	var inFlight, maxInFlight, completed int64
	var startedEarly int64
	Map(context.Background(), items, 5, func(ctx context.Context, item int) (int, error) {
		// every item of the previous group has finished before this one starts
		if atomic.LoadInt64(&completed) < int64(item/5*5) {
			atomic.AddInt64(&startedEarly, 1)
		}
		n := atomic.AddInt64(&inFlight, 1)
		for {
			current := atomic.LoadInt64(&maxInFlight)
			if n <= current || atomic.CompareAndSwapInt64(&maxInFlight, current, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		atomic.AddInt64(&completed, 1)
		return item, nil
	}, func(int, error) int { return -1 })

	require.LessOrEqual(t, maxInFlight, int64(5))
	require.Zero(t, startedEarly)
	require.Equal(t, int64(12), completed)
}

func TestMapFallbackPerItem(t *testing.T) {
	items := []string{"ok", "bad", "ok", "bad", "ok", "ok", "bad"}
	errBad := errors.New("bad item")

	out := Map(context.Background(), items, 5, func(ctx context.Context, item string) (string, error) {
		if item == "bad" {
			return "", errBad
		}
		return "fetched", nil
	}, func(item string, err error) string {
		if !errors.Is(err, errBad) {
			return "unexpected error"
		}
		return "Uncategorized"
	})

	require.Equal(t, []string{
		"fetched", "Uncategorized", "fetched", "Uncategorized",
		"fetched", "fetched", "Uncategorized",
	}, out)
}

func TestMapCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int64
	out := Map(ctx, []int{1, 2, 3}, 5, func(ctx context.Context, item int) (int, error) {
		atomic.AddInt64(&calls, 1)
		return item, nil
	}, func(item int, err error) int {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		return -1
	})

	require.Equal(t, []int{0, 0, 0}, out)
	require.Zero(t, calls)
}

func TestMapEmpty(t *testing.T) {
	out := Map(context.Background(), nil, 5, func(ctx context.Context, item int) (int, error) {
		return item, nil
	}, func(int, error) int { return 0 })
	require.Empty(t, out)
}
