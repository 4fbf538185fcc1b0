// Package auth establishes the session the rest of the adapter acts as.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sync"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/assert"
	"inventory-adapter/internal/components/telemetry"
	"inventory-adapter/internal/session"
	"inventory-adapter/internal/transport"
)

const (
	report_manager_login       = "manager.login"
	report_manager_login_oauth = "manager.login-oauth"
)

const (
	loginPath    = "/login"
	oauthPath    = "/google-login"
	exchangePath = "/mobile_session_exchange"
)

// Manager is the only writer of the session store, besides the transport
// clearing it when the backend rejects the session.
type Manager struct {
	client         *transport.Client
	store          session.Store
	authorizer     Authorizer
	callbackScheme string

	tel telemetry.API

	mu      sync.Mutex
	pending *flow
}

// NewManager creates a Manager. authorizer may be nil, LoginOAuth then fails
// with ErrAuthCancelled.
func NewManager(client *transport.Client, authorizer Authorizer, callbackScheme string, tel telemetry.API) *Manager {
	assert.NotNil(client, "client")
	assert.NotNil(tel, "telemetry")
	assert.NotEmpty(callbackScheme, "callback scheme")

	return &Manager{
		client:         client,
		store:          client.Store(),
		authorizer:     authorizer,
		callbackScheme: callbackScheme,
		tel:            telemetry.NewScopedAPI("auth", tel),
	}
}

var sessionCookieRegex = regexp.MustCompile(`session=([^;]+)`)

// sessionToken finds the session cookie among raw Set-Cookie values.
func sessionToken(cookies []string) (string, bool) {
	for _, c := range cookies {
		match := sessionCookieRegex.FindStringSubmatch(c)
		if len(match) < 2 {
			continue
		}
		token := session.CookieValue(match[1])
		if token != "" {
			return token, true
		}
	}
	return "", false
}

// Login posts the credentials and expects the backend to answer with a
// redirect carrying the session cookie. Anything else means the credentials
// were rejected.
func (m *Manager) Login(ctx context.Context, username, password string) (session.Session, error) {
	res, err := m.client.Send(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Form: url.Values{
			"username": {username},
			"password": {password},
		},
	})
	if err != nil {
		return session.Session{}, err
	}
	if !res.Redirected() {
		return session.Session{}, fmt.Errorf("%w: login answered with status %d", apperr.ErrUnauthorized, res.Status)
	}

	token, ok := sessionToken(res.Cookies)
	if !ok {
		m.tel.ReportWarning(report_manager_login, "redirect without a session cookie", res.Location)
		return session.Session{}, fmt.Errorf("%w: no session cookie in login response", apperr.ErrUnauthorized)
	}

	s := session.Session{Token: token, Username: username}
	m.store.Set(s)
	return s, nil
}

// Logout forgets the session. The backend is not told: its sessions expire
// on their own.
func (m *Manager) Logout() {
	m.store.Clear()
}

// Restore reports the session persisted by an earlier login, if any.
func (m *Manager) Restore() (session.Session, bool) {
	return m.store.Get()
}
