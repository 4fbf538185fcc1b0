package deadline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRace(t *testing.T) {
	t.Run("fn wins", func(t *testing.T) {
		value, err := Race(context.Background(), time.Second, func(ctx context.Context) (string, error) {
			return "items", nil
		})
		require.NoError(t, err)
		require.Equal(t, "items", value)
	})

	t.Run("fn error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Race(context.Background(), time.Second, func(ctx context.Context) (int, error) {
			return 0, boom
		})
		require.ErrorIs(t, err, boom)
	})

	t.Run("timer wins and cancels fn", func(t *testing.T) {
		cancelled := make(chan struct{})
		_, err := Race(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
			<-ctx.Done()
			close(cancelled)
			return 0, ctx.Err()
		})
		require.ErrorIs(t, err, ErrTimeout)
		require.ErrorIs(t, err, context.DeadlineExceeded)

		select {
		case <-cancelled:
		case <-time.After(time.Second):
			t.Fatal("loser was not cancelled")
		}
	})

	t.Run("parent cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Race(ctx, time.Second, func(ctx context.Context) (int, error) {
			time.Sleep(50 * time.Millisecond)
			return 1, nil
		})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no timer", func(t *testing.T) {
		value, err := Race(context.Background(), 0, func(ctx context.Context) (int, error) {
			return 7, nil
		})
		require.NoError(t, err)
		require.Equal(t, 7, value)
	})
}
