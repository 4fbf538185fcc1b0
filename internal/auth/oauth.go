package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/session"
	"inventory-adapter/internal/transport"
)

// Authorizer drives an external authorization UI (a browser) through the
// backend's OAuth pages.
//
// Start opens authURL and returns once the UI is up. Later, complete is
// called with the first url navigated to under callbackScheme, or with
// ErrAuthCancelled when the user dismisses the UI. complete may be called
// more than once, only the first call counts.
type Authorizer interface {
	Start(ctx context.Context, authURL, callbackScheme string, complete func(callback *url.URL, err error)) error
}

// flow is a single OAuth attempt: pending until the first completion,
// completed with a callback or an error after it.
type flow struct {
	once     sync.Once
	done     chan struct{}
	callback *url.URL
	err      error
}

func newFlow() *flow {
	return &flow{done: make(chan struct{})}
}

func (f *flow) complete(callback *url.URL, err error) {
	f.once.Do(func() {
		f.callback, f.err = callback, err
		close(f.done)
	})
}

func (f *flow) wait(ctx context.Context) (*url.URL, error) {
	select {
	case <-f.done:
		return f.callback, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) begin() (*flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		return nil, apperr.ErrAuthInProgress
	}
	m.pending = newFlow()
	return m.pending, nil
}

func (m *Manager) end(f *flow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == f {
		m.pending = nil
	}
}

// AuthorizationURL is where the external UI is sent to start the OAuth flow.
func (m *Manager) AuthorizationURL() string {
	return m.client.URL(oauthPath, url.Values{"mobile": {"true"}})
}

// LoginOAuth delegates the login to the backend's Google sign in. Only one
// attempt runs at a time, a second concurrent call fails with
// ErrAuthInProgress.
func (m *Manager) LoginOAuth(ctx context.Context) (session.Session, error) {
	f, err := m.begin()
	if err != nil {
		return session.Session{}, err
	}
	defer m.end(f)

	if m.authorizer == nil {
		return session.Session{}, fmt.Errorf("%w: no authorizer configured", apperr.ErrAuthCancelled)
	}
	err = m.authorizer.Start(ctx, m.AuthorizationURL(), m.callbackScheme, f.complete)
	if err != nil {
		m.tel.ReportBroken(report_manager_login_oauth, fmt.Errorf("start authorizer: %w", err))
		return session.Session{}, err
	}

	callback, err := f.wait(ctx)
	if err != nil {
		return session.Session{}, err
	}
	username, oneTimeToken, err := parseCallback(callback)
	if err != nil {
		return session.Session{}, err
	}

	s, err := m.exchange(ctx, oneTimeToken, username)
	if err != nil {
		m.tel.ReportBroken(report_manager_login_oauth, err)
		return session.Session{}, err
	}
	m.store.Set(s)
	return s, nil
}

// parseCallback reads the callback url the authorization UI ended on. The
// backend signals success in the host or path (scheme://auth/success?...).
func parseCallback(callback *url.URL) (username, token string, err error) {
	if callback == nil {
		return "", "", apperr.ErrNoData
	}
	where := strings.ToLower(callback.Host + callback.Path + callback.Opaque)
	query := callback.Query()
	if !strings.Contains(where, "success") {
		reason := query.Get("error")
		if reason == "" {
			reason = where
		}
		return "", "", fmt.Errorf("%w: authorization failed: %s", apperr.ErrUnauthorized, reason)
	}

	token = query.Get("session_token")
	if token == "" {
		return "", "", fmt.Errorf("%w: callback without session_token", apperr.ErrNoData)
	}
	return query.Get("username"), token, nil
}

type exchangeRequest struct {
	SessionToken string `json:"session_token"`
}

type exchangeResponse struct {
	Success       bool   `json:"success"`
	SessionCookie string `json:"session_cookie"`
	Username      string `json:"username"`
	UserID        *int   `json:"user_id"`
	IsAdmin       *bool  `json:"is_admin"`
	Error         string `json:"error"`
}

func (m *Manager) exchange(ctx context.Context, oneTimeToken, username string) (session.Session, error) {
	res, err := m.client.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   exchangePath,
		JSON:   exchangeRequest{SessionToken: oneTimeToken},
	})
	if err != nil {
		return session.Session{}, err
	}
	if len(strings.TrimSpace(string(res.Body))) == 0 {
		return session.Session{}, apperr.ErrNoData
	}

	var body exchangeResponse
	if err := json.Unmarshal(res.Body, &body); err != nil {
		return session.Session{}, fmt.Errorf("%w: %s", apperr.ErrDecoding, err.Error())
	}

	token := session.CookieValue(body.SessionCookie)
	if !body.Success || token == "" {
		detail := body.Error
		if detail == "" {
			detail = apperr.Snippet(string(res.Body), 200)
		}
		return session.Session{}, &apperr.ServerError{Status: res.Status, Detail: detail}
	}

	s := session.Session{
		Token:    token,
		Username: body.Username,
		UserID:   body.UserID,
	}
	if s.Username == "" {
		s.Username = username
	}
	if body.IsAdmin != nil {
		s.IsAdmin = *body.IsAdmin
	}
	return s, nil
}

// IsCancelled reports whether err means the user walked away from the
// authorization UI.
func IsCancelled(err error) bool {
	return errors.Is(err, apperr.ErrAuthCancelled)
}
