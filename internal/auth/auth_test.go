package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/components/telemetry"
	"inventory-adapter/internal/config"
	"inventory-adapter/internal/session"
	"inventory-adapter/internal/transport"

	"github.com/stretchr/testify/require"
)

// fakeAuthorizer completes the flow with whatever its script says.
type fakeAuthorizer struct {
	started chan string
	script  func(complete func(*url.URL, error))
}

func (f *fakeAuthorizer) Start(ctx context.Context, authURL, callbackScheme string, complete func(*url.URL, error)) error {
	if f.started != nil {
		f.started <- authURL
	}
	go f.script(complete)
	return nil
}

func callback(t testing.TB, raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func setup(t testing.TB, handler http.HandlerFunc, authorizer Authorizer) (*Manager, session.Store) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts := transport.OptionsFromConfig(config.Default())
	opts.BaseURL = server.URL
	store := session.NewMemoryStore()
	tel := &telemetry.Recorder{}
	client, err := transport.New(opts, store, tel)
	if err != nil {
		t.Fatal(err)
	}
	return NewManager(client, authorizer, "inventoryapp", tel), store
}

func TestLoginCapturesRedirectCookie(t *testing.T) {
	var form url.Values
	manager, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.Header().Add("Set-Cookie", "session=abc123; Path=/")
		http.Redirect(w, r, "/groups/list", http.StatusFound)
	}, nil)

	s, err := manager.Login(context.Background(), "alice", "p&ss=word")
	require.NoError(t, err)
	require.Equal(t, "abc123", s.Token)
	require.NotContains(t, s.Token, ";")
	require.NotContains(t, s.Token, "Path")
	require.Equal(t, "alice", s.Username)
	require.Equal(t, "p&ss=word", form.Get("password"))

	stored, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, s, stored)

	restored, ok := manager.Restore()
	require.True(t, ok)
	require.Equal(t, s, restored)

	manager.Logout()
	_, ok = manager.Restore()
	require.False(t, ok)
}

func TestLoginRejected(t *testing.T) {
	table := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "login page",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><head><title>Login</title></head><body>Invalid username or password</body></html>`))
			},
		},
		{
			name: "redirect back to login",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/login", http.StatusFound)
			},
		},
		{
			name: "redirect without cookie",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/groups/list", http.StatusFound)
			},
		},
		{
			name: "plain 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html><body>hello</body></html>`))
			},
		},
	}

	for _, test := range table {
		manager, store := setup(t, test.handler, nil)
		_, err := manager.Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, apperr.ErrUnauthorized, test.name)
		_, ok := store.Get()
		require.False(t, ok, test.name)
	}
}

func TestSessionToken(t *testing.T) {
	token, ok := sessionToken([]string{"theme=dark; Path=/", "session=abc123; Path=/; HttpOnly"})
	require.True(t, ok)
	require.Equal(t, "abc123", token)

	_, ok = sessionToken([]string{"theme=dark"})
	require.False(t, ok)
}

func exchangeHandler(t testing.TB, received *string, response string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != exchangePath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		*received = body["session_token"]
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(response))
	}
}

func TestLoginOAuth(t *testing.T) {
	var received string
	authorizer := &fakeAuthorizer{
		started: make(chan string, 1),
		script: func(complete func(*url.URL, error)) {
			complete(callback(t, "inventoryapp://auth/success?username=alice&session_token=one-time"), nil)
			// later signals from the UI are ignored
			complete(nil, apperr.ErrAuthCancelled)
		},
	}
	manager, store := setup(t, exchangeHandler(t, &received,
		`{"success": true, "session_cookie": "session=xyz789", "username": "alice", "user_id": 12, "is_admin": true}`,
	), authorizer)

	s, err := manager.LoginOAuth(context.Background())
	require.NoError(t, err)
	require.Equal(t, "one-time", received)

	userID := 12
	require.Equal(t, session.Session{Token: "xyz789", Username: "alice", UserID: &userID, IsAdmin: true}, s)
	stored, _ := store.Get()
	require.Equal(t, s, stored)

	authURL := <-authorizer.started
	require.True(t, strings.HasSuffix(authURL, "/google-login?mobile=true"))
}

func TestLoginOAuthCancelled(t *testing.T) {
	authorizer := &fakeAuthorizer{script: func(complete func(*url.URL, error)) {
		complete(nil, apperr.ErrAuthCancelled)
	}}
	manager, store := setup(t, func(w http.ResponseWriter, r *http.Request) {}, authorizer)

	_, err := manager.LoginOAuth(context.Background())
	require.ErrorIs(t, err, apperr.ErrAuthCancelled)
	require.True(t, IsCancelled(err))
	_, ok := store.Get()
	require.False(t, ok)
}

func TestLoginOAuthSingleAttempt(t *testing.T) {
	release := make(chan struct{})
	started := make(chan string, 1)
	authorizer := &fakeAuthorizer{
		started: started,
		script: func(complete func(*url.URL, error)) {
			<-release
			complete(nil, apperr.ErrAuthCancelled)
		},
	}
	manager, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {}, authorizer)

	first := make(chan error, 1)
	go func() {
		_, err := manager.LoginOAuth(context.Background())
		first <- err
	}()
	<-started

	_, err := manager.LoginOAuth(context.Background())
	require.ErrorIs(t, err, apperr.ErrAuthInProgress)

	close(release)
	select {
	case err := <-first:
		require.ErrorIs(t, err, apperr.ErrAuthCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("first attempt never resolved")
	}

	// the flow is released once it resolves
	authorizer.script = func(complete func(*url.URL, error)) {
		complete(nil, apperr.ErrAuthCancelled)
	}
	_, err = manager.LoginOAuth(context.Background())
	require.ErrorIs(t, err, apperr.ErrAuthCancelled)
}

func TestLoginOAuthContextCancelled(t *testing.T) {
	authorizer := &fakeAuthorizer{script: func(complete func(*url.URL, error)) {}}
	manager, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {}, authorizer)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := manager.LoginOAuth(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoginOAuthExchangeFailures(t *testing.T) {
	table := []struct {
		name     string
		response string
		check    func(t *testing.T, err error)
	}{
		{
			name:     "malformed json",
			response: `{"success": tru`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, apperr.ErrDecoding)
			},
		},
		{
			name:     "unsuccessful",
			response: `{"success": false, "error": "token expired"}`,
			check: func(t *testing.T, err error) {
				var serverErr *apperr.ServerError
				require.True(t, errors.As(err, &serverErr))
				require.Equal(t, "token expired", serverErr.Detail)
			},
		},
		{
			name:     "missing cookie",
			response: `{"success": true, "username": "alice"}`,
			check: func(t *testing.T, err error) {
				var serverErr *apperr.ServerError
				require.True(t, errors.As(err, &serverErr))
			},
		},
		{
			name:     "empty body",
			response: ``,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, apperr.ErrNoData)
			},
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			var received string
			authorizer := &fakeAuthorizer{script: func(complete func(*url.URL, error)) {
				complete(callback(t, "inventoryapp://success?username=alice&session_token=one-time"), nil)
			}}
			manager, store := setup(t, exchangeHandler(t, &received, test.response), authorizer)

			_, err := manager.LoginOAuth(context.Background())
			test.check(t, err)
			_, ok := store.Get()
			require.False(t, ok)
		})
	}
}

func TestParseCallback(t *testing.T) {
	username, token, err := parseCallback(callback(t, "inventoryapp://auth/success?username=alice&session_token=abc"))
	require.NoError(t, err)
	require.Equal(t, "alice", username)
	require.Equal(t, "abc", token)

	_, _, err = parseCallback(callback(t, "inventoryapp://auth/error?error=access_denied"))
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
	require.Contains(t, err.Error(), "access_denied")

	_, _, err = parseCallback(callback(t, "inventoryapp://auth/success?username=alice"))
	require.ErrorIs(t, err, apperr.ErrNoData)

	_, _, err = parseCallback(nil)
	require.ErrorIs(t, err, apperr.ErrNoData)
}
