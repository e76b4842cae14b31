package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultUsername is the display name used when the token carries no
// recognizable username claim.
const DefaultUsername = "User"

// Identity is the normalized result of decoding an access token. The
// polymorphic subject claim (plain string or object with a username field)
// is resolved here, once, and never leaks further into the codebase.
type Identity struct {
	Username  string
	ExpiresAt time.Time
}

var (
	errMalformedToken = errors.New("session: malformed token")
	errExpiredToken   = errors.New("session: token expired")
)

// decodeToken parses raw as a JWT without signature verification (the
// client holds no key; the server re-validates every request anyway) and
// normalizes its claims. Returns an error for malformed tokens and for
// tokens whose expiry is not after now.
func decodeToken(raw string, now time.Time) (Identity, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return Identity{}, errMalformedToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Identity{}, errMalformedToken
	}
	if !exp.Time.After(now) {
		return Identity{}, errExpiredToken
	}

	return Identity{
		Username:  usernameFromClaims(claims),
		ExpiresAt: exp.Time,
	}, nil
}

// usernameFromClaims prefers a nested sub.username, falls back to a
// top-level username claim, else the default display name.
func usernameFromClaims(claims jwt.MapClaims) string {
	if sub, ok := claims["sub"].(map[string]any); ok {
		if name, ok := sub["username"].(string); ok && name != "" {
			return name
		}
	}
	if name, ok := claims["username"].(string); ok && name != "" {
		return name
	}
	return DefaultUsername
}
