package session

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"inventory-adapter/internal/components/telemetry"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

const (
	report_sqlite_load  = "sqlite.load"
	report_sqlite_set   = "sqlite.set"
	report_sqlite_clear = "sqlite.clear"
)

// field names of the persisted session
const (
	keyToken    = "session_token"
	keyUsername = "username"
	keyUserID   = "user_id"
	keyIsAdmin  = "is_admin"
)

// SQLiteStore is a write-through Store persisted to a sqlite key-value table,
// so a login survives restarts. Reads are served from memory.
type SQLiteStore struct {
	db  *sql.DB
	tel telemetry.API

	mu      sync.RWMutex
	current *Session
}

// OpenSQLite opens (or creates) the database at path and loads any session
// persisted in it. Use ":memory:" for a throwaway database.
func OpenSQLite(path string, tel telemetry.API) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}
	store, err := NewSQLiteStore(db, tel)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(db *sql.DB, tel telemetry.API) (*SQLiteStore, error) {
	tel = telemetry.NewScopedAPI("session", tel)
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &SQLiteStore{db: db, tel: tel}
	current, err := s.load()
	if err != nil {
		tel.ReportBroken(report_sqlite_load, err)
		return nil, err
	}
	s.current = current
	return s, nil
}

func (s *SQLiteStore) load() (*Session, error) {
	rows, err := s.db.Query("select key, value from session")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		fields[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	token := fields[keyToken]
	if token == "" {
		return nil, nil
	}
	session := &Session{
		Token:    token,
		Username: fields[keyUsername],
		IsAdmin:  fields[keyIsAdmin] == "1",
	}
	if raw, ok := fields[keyUserID]; ok {
		if userID, err := strconv.Atoi(raw); err == nil {
			session.UserID = &userID
		}
	}
	return session, nil
}

func (s *SQLiteStore) Get() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *SQLiteStore) Set(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &session

	fields := map[string]string{
		keyToken:    session.Token,
		keyUsername: session.Username,
		keyIsAdmin:  "0",
	}
	if session.IsAdmin {
		fields[keyIsAdmin] = "1"
	}
	if session.UserID != nil {
		fields[keyUserID] = strconv.Itoa(*session.UserID)
	}

	err := s.replace(fields)
	if err != nil {
		s.tel.ReportBroken(report_sqlite_set, err)
	}
}

func (s *SQLiteStore) replace(fields map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("delete from session"); err != nil {
		return err
	}
	for key, value := range fields {
		_, err := tx.Exec("insert into session (key, value) values (?, ?)", key, value)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil

	if _, err := s.db.Exec("delete from session"); err != nil {
		s.tel.ReportBroken(report_sqlite_clear, err)
	}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
