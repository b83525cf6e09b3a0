// Package auth provides session tokens, password hashing, and the HTTP
// middleware that gates the notes pages.
//
// SESSION FLOW:
// 1. User signs up or logs in (password form or GitHub OAuth)
// 2. Server issues a signed JWT with the user's internal ID as the subject
// 3. The JWT lives in an HttpOnly cookie named "session"
// 4. On each request, middleware validates the cookie and puts the userID
//    in the request context; protected pages redirect anonymous browsers
//    to the login page with a "next" continuation parameter
//
// WHY JWT FOR SESSIONS?
// The token is stateless — no session table, no lookup per request. The
// signature makes it tamper-proof, and the expiry bounds how long a stolen
// cookie stays useful. For a single-binary app this is the simplest thing
// that works.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the HttpOnly cookie carrying the JWT.
const SessionCookie = "session"

// SessionLifetime is how long a login lasts before the user must
// authenticate again.
const SessionLifetime = 24 * time.Hour

const issuer = "notekeeper"

// TokenService signs and validates session JWTs. It holds the HMAC secret;
// the same secret must be used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production,
// e.g. SESSION_SECRET=$(openssl rand -hex 32).
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the "sub" claim carries the internal
// user ID, which is the standard claim for identifying the token's owner.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID,
// valid for SessionLifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, SessionLifetime)
}

// GenerateWithDuration creates a token with a custom expiry.
// Tests use this to produce already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token, returning the userID from
// the subject claim.
//
// The jwt library checks the signature, expiry, and issuer. Pinning the
// algorithm with WithValidMethods prevents algorithm-confusion attacks
// (a token claiming alg "none" is rejected outright).
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}

// SetSessionCookie writes the session JWT as an HttpOnly cookie.
// HttpOnly keeps JavaScript away from the token; SameSite=Lax sends it on
// top-level navigations but not cross-site POSTs.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		// Secure: true, // enable in production behind HTTPS
	})
}

// ClearSessionCookie tells the browser to delete the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
