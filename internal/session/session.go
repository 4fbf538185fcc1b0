// Package session holds the one login the adapter acts as.
package session

import (
	"strings"
	"sync"
)

const CookieName = "session"

type Session struct {
	Token    string
	Username string
	UserID   *int
	IsAdmin  bool
}

// Store holds at most one Session. Implementations are safe for concurrent
// use.
type Store interface {
	Get() (Session, bool)
	Set(s Session)
	Clear()
}

// MemoryStore keeps the session for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	current *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

func (m *MemoryStore) Set(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &s
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
}

// CookieValue reduces a token to its bare value: any number of leading
// "session=" prefixes and any cookie attributes after ";" are dropped.
func CookieValue(token string) string {
	token = strings.TrimSpace(token)
	if i := strings.IndexByte(token, ';'); i >= 0 {
		token = token[:i]
	}
	for {
		trimmed := strings.TrimSpace(token)
		if !strings.HasPrefix(trimmed, CookieName+"=") {
			return trimmed
		}
		token = trimmed[len(CookieName)+1:]
	}
}

// CookieHeader renders the value of a Cookie header carrying token.
func CookieHeader(token string) string {
	return CookieName + "=" + CookieValue(token)
}
