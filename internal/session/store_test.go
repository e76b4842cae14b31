package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"smartbudget/internal/api"
)

// signToken builds a compact JWT with the given claims. The signature key is
// irrelevant since the client never verifies it.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return raw
}

func TestDecodeToken(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour).Unix()

	tests := []struct {
		name     string
		claims   jwt.MapClaims
		wantUser string
	}{
		{
			name:     "nested sub username",
			claims:   jwt.MapClaims{"sub": map[string]any{"username": "priya"}, "exp": future},
			wantUser: "priya",
		},
		{
			name:     "top-level username fallback",
			claims:   jwt.MapClaims{"sub": "abc123", "username": "dev", "exp": future},
			wantUser: "dev",
		},
		{
			name:     "nested sub wins over top-level",
			claims:   jwt.MapClaims{"sub": map[string]any{"username": "a"}, "username": "b", "exp": future},
			wantUser: "a",
		},
		{
			name:     "no username claim",
			claims:   jwt.MapClaims{"sub": "abc123", "exp": future},
			wantUser: DefaultUsername,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := decodeToken(signToken(t, tt.claims), now)
			if err != nil {
				t.Fatalf("decodeToken: %v", err)
			}
			if ident.Username != tt.wantUser {
				t.Errorf("username = %q, want %q", ident.Username, tt.wantUser)
			}
			if ident.ExpiresAt.Unix() != future {
				t.Errorf("expiry = %v, want unix %d", ident.ExpiresAt, future)
			}
		})
	}
}

func TestDecodeTokenExpired(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	raw := signToken(t, jwt.MapClaims{"username": "x", "exp": now.Add(-time.Minute).Unix()})

	if _, err := decodeToken(raw, now); !errors.Is(err, errExpiredToken) {
		t.Errorf("err = %v, want errExpiredToken", err)
	}
}

func TestDecodeTokenMalformed(t *testing.T) {
	now := time.Now()
	for _, raw := range []string{"", "not-a-jwt", "aaa.bbb"} {
		if _, err := decodeToken(raw, now); !errors.Is(err, errMalformedToken) {
			t.Errorf("decodeToken(%q) err = %v, want errMalformedToken", raw, err)
		}
	}
	// Valid structure but no exp claim
	raw := signToken(t, jwt.MapClaims{"username": "x"})
	if _, err := decodeToken(raw, now); !errors.Is(err, errMalformedToken) {
		t.Errorf("token without exp: err = %v, want errMalformedToken", err)
	}
}

// fakeAuth is a canned Authenticator for store tests.
type fakeAuth struct {
	loginResp   api.LoginResponse
	loginErr    error
	registerErr error
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (api.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, _, _ string) error {
	return f.registerErr
}

func tokenPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "token")
}

func TestInitializeFromFile(t *testing.T) {
	path := tokenPath(t)
	raw := signToken(t, jwt.MapClaims{
		"sub": map[string]any{"username": "priya"},
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	s.Initialize()

	sess, ok := s.Current()
	if !ok {
		t.Fatal("expected active session after Initialize")
	}
	if sess.Username != "priya" {
		t.Errorf("username = %q, want priya", sess.Username)
	}
	if s.Token() != raw {
		t.Error("Token() does not return the persisted token")
	}
}

func TestInitializeRemovesExpiredToken(t *testing.T) {
	path := tokenPath(t)
	raw := signToken(t, jwt.MapClaims{"username": "x", "exp": time.Now().Add(-time.Hour).Unix()})
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	s.Initialize()

	if _, ok := s.Current(); ok {
		t.Error("expired token must not produce a session")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expired token file should have been removed")
	}
}

func TestInitializeEnvOverride(t *testing.T) {
	path := tokenPath(t)
	raw := signToken(t, jwt.MapClaims{"username": "envuser", "exp": time.Now().Add(time.Hour).Unix()})
	t.Setenv("SMARTBUDGET_TOKEN", raw)

	s := NewStore(path)
	s.Initialize()

	sess, ok := s.Current()
	if !ok || sess.Username != "envuser" {
		t.Errorf("session = %+v ok=%v, want envuser session", sess, ok)
	}
}

func TestLoginPersistsToken(t *testing.T) {
	path := tokenPath(t)
	raw := signToken(t, jwt.MapClaims{"username": "priya", "exp": time.Now().Add(time.Hour).Unix()})

	s := NewStore(path)
	s.Bind(&fakeAuth{loginResp: api.LoginResponse{AccessToken: raw, Username: "priya"}})

	notified := 0
	s.Subscribe(func() { notified++ })

	res := s.Login(context.Background(), "priya", "secret")
	if !res.OK {
		t.Fatalf("login failed: %s", res.Err)
	}
	if notified == 0 {
		t.Error("subscribers not notified after login")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("token not persisted: %v", err)
	}
	if string(data) != raw {
		t.Error("persisted token differs from login response")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestLoginFailureUsesServerMessage(t *testing.T) {
	s := NewStore(tokenPath(t))
	s.Bind(&fakeAuth{loginErr: &api.APIError{Status: 401, Message: "Invalid credentials"}})

	res := s.Login(context.Background(), "priya", "wrong")
	if res.OK {
		t.Fatal("login should have failed")
	}
	if res.Err != "Invalid credentials" {
		t.Errorf("Err = %q, want server message", res.Err)
	}
	if _, ok := s.Current(); ok {
		t.Error("failed login must not create a session")
	}
}

func TestLoginTransportFailureGenericMessage(t *testing.T) {
	s := NewStore(tokenPath(t))
	s.Bind(&fakeAuth{loginErr: errors.New("connection refused")})

	res := s.Login(context.Background(), "priya", "secret")
	if res.OK || res.Err != "Login failed" {
		t.Errorf("result = %+v, want generic failure message", res)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	path := tokenPath(t)
	raw := signToken(t, jwt.MapClaims{"username": "priya", "exp": time.Now().Add(time.Hour).Unix()})
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path)
	s.Initialize()
	s.Logout()
	s.Logout()

	if _, ok := s.Current(); ok {
		t.Error("session still active after logout")
	}
	if s.Token() != "" {
		t.Error("token still held after logout")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("token file should be gone after logout")
	}
}

func TestRegisterDoesNotTouchSession(t *testing.T) {
	s := NewStore(tokenPath(t))
	s.Bind(&fakeAuth{})

	res := s.Register(context.Background(), "priya", "secret")
	if !res.OK {
		t.Fatalf("register failed: %s", res.Err)
	}
	if _, ok := s.Current(); ok {
		t.Error("register must not log the user in")
	}
}
