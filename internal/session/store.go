// Package session owns the authenticated-session lifecycle: who is logged
// in, the persisted access token, and login/register/logout operations.
package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"smartbudget/internal/api"
)

// Session is the in-memory record of a logged-in user. It exists only while
// a non-expired access token is held; the store enforces that invariant.
type Session struct {
	Username    string
	TokenExpiry time.Time
}

// Result is the outcome of a login or register attempt. Transport and server
// errors are converted into a non-empty Err message; they never propagate as
// raw errors past the store boundary.
type Result struct {
	OK  bool
	Err string
}

// Authenticator is the slice of the API client the store needs. Defined here
// so the store can be exercised against a fake in tests.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (api.LoginResponse, error)
	Register(ctx context.Context, username, password string) error
}

// Store is the single source of truth for the current session. It is created
// once at the application root and handed to everything that needs it; there
// is no package-level singleton.
type Store struct {
	path string
	auth Authenticator

	mu      sync.RWMutex
	current *Session
	token   string
	subs    []func()
}

// NewStore creates a store persisting its token at path. The authenticator
// is bound separately (see Bind) because the API client itself needs the
// store as its token source.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Bind attaches the authenticator used by Login and Register. Called once
// during composition at the application root.
func (s *Store) Bind(auth Authenticator) {
	s.auth = auth
}

// Initialize loads any persisted token and derives the session from it.
// It is synchronous and local-only: no network access. A malformed or
// expired token is deleted and leaves the session empty, silently.
func (s *Store) Initialize() {
	s.mu.Lock()

	raw := os.Getenv("SMARTBUDGET_TOKEN")
	fromEnv := raw != ""
	if !fromEnv {
		data, err := os.ReadFile(s.path)
		if err != nil {
			s.current = nil
			s.token = ""
			s.mu.Unlock()
			s.notify()
			return
		}
		raw = string(data)
	}

	ident, err := decodeToken(raw, time.Now())
	if err != nil {
		if !fromEnv {
			_ = os.Remove(s.path)
		}
		s.current = nil
		s.token = ""
		s.mu.Unlock()
		s.notify()
		return
	}

	s.token = raw
	s.current = &Session{Username: ident.Username, TokenExpiry: ident.ExpiresAt}
	s.mu.Unlock()
	s.notify()
}

// Login authenticates against the server, persists the returned token, and
// activates the session. Errors come back as a Result, never as a panic or
// a propagated transport fault.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	if s.auth == nil {
		return Result{Err: "no API client configured"}
	}

	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return Result{Err: failureMessage(err, "Login failed")}
	}

	expiry := time.Time{}
	if ident, err := decodeToken(resp.AccessToken, time.Now()); err == nil {
		expiry = ident.ExpiresAt
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.current = &Session{Username: resp.Username, TokenExpiry: expiry}
	s.mu.Unlock()

	if err := s.persistToken(resp.AccessToken); err != nil {
		// Session stays active for this process; it just won't survive restart.
		s.notify()
		return Result{OK: true}
	}

	s.notify()
	return Result{OK: true}
}

// Register creates an account. It does not log the user in and does not
// touch the session.
func (s *Store) Register(ctx context.Context, username, password string) Result {
	if s.auth == nil {
		return Result{Err: "no API client configured"}
	}
	if err := s.auth.Register(ctx, username, password); err != nil {
		return Result{Err: failureMessage(err, "Registration failed")}
	}
	return Result{OK: true}
}

// Logout clears the session and deletes the persisted token. Safe to call
// when already logged out; the end state is the same.
func (s *Store) Logout() {
	s.mu.Lock()
	s.current = nil
	s.token = ""
	s.mu.Unlock()

	_ = os.Remove(s.path)
	s.notify()
}

// Current returns a snapshot of the active session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Token returns the raw access token, or "" when logged out. This is the
// synchronous snapshot the API client reads at request dispatch time.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Subscribe registers fn to run after every session change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

func (s *Store) persistToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// failureMessage prefers the server's error payload, falling back to a
// generic message for transport-level failures.
func failureMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
