package session

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"inventory-adapter/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestCookieValue(t *testing.T) {
	table := []struct {
		token    string
		expected string
	}{
		{token: "abc123", expected: "abc123"},
		{token: "session=abc123", expected: "abc123"},
		{token: "session=session=abc123", expected: "abc123"},
		{token: "session=abc123; Path=/; HttpOnly", expected: "abc123"},
		{token: "  abc123  ", expected: "abc123"},
		{token: "", expected: ""},
	}

	for _, test := range table {
		require.Equal(t, test.expected, CookieValue(test.token), test.token)
	}
}

func TestCookieHeaderNeverDoublesPrefix(t *testing.T) {
	for _, token := range []string{"abc123", "session=abc123", "session=session=abc123"} {
		header := CookieHeader(token)
		require.Equal(t, "session=abc123", header)
		require.Equal(t, 1, strings.Count(header, "session="))
	}
}

func testStore(t *testing.T, store Store) {
	_, ok := store.Get()
	require.False(t, ok)

	userID := 42
	store.Set(Session{Token: "abc123", Username: "alice", UserID: &userID, IsAdmin: true})
	got, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "abc123", got.Token)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, 42, *got.UserID)
	require.True(t, got.IsAdmin)

	store.Set(Session{Token: "def456", Username: "bob"})
	got, _ = store.Get()
	require.Equal(t, "def456", got.Token)
	require.Nil(t, got.UserID)
	require.False(t, got.IsAdmin)

	store.Clear()
	_, ok = store.Get()
	require.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Set(Session{Token: "abc123"})
		}()
		go func() {
			defer wg.Done()
			store.Get()
		}()
	}
	wg.Wait()

	got, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "abc123", got.Token)
}

func TestSQLiteStore(t *testing.T) {
	rec := &telemetry.Recorder{}
	store, err := OpenSQLite(":memory:", rec)
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)
	require.Empty(t, rec.Reports("broken", ""))
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	rec := &telemetry.Recorder{}

	store, err := OpenSQLite(path, rec)
	require.NoError(t, err)
	userID := 7
	store.Set(Session{Token: "abc123", Username: "alice", UserID: &userID})
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path, rec)
	require.NoError(t, err)
	got, ok := reopened.Get()
	require.True(t, ok)
	require.Equal(t, Session{Token: "abc123", Username: "alice", UserID: &userID}, got)

	reopened.Clear()
	require.NoError(t, reopened.Close())

	cleared, err := OpenSQLite(path, rec)
	require.NoError(t, err)
	defer cleared.Close()
	_, ok = cleared.Get()
	require.False(t, ok)
}
