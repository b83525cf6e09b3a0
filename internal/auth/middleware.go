package auth

import (
	"context"
	"net/http"
)

// contextKey is a private type for context values. Using a dedicated type
// (not a plain string) means no other package can collide with — or fish
// out — our context entries.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is middleware for pages that only make sense for a logged-in
// user. It validates the session cookie and stores the userID in the
// request context for handlers downstream.
//
// This is a browser-facing app, so an anonymous request is not an API
// error: it gets a 302 to the login page, with the originally requested
// URL carried in a "next" query parameter so login can send the user back
// to where they were headed.
func RequireAuth(tokens *TokenService, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := userIDFromCookie(tokens, r)
			if !ok {
				// The slug charset ([-a-zA-Z0-9_]) keeps request paths
				// URL-safe, so the continuation needs no escaping.
				http.Redirect(w, r, loginPath+"?next="+r.URL.RequestURI(), http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth populates the userID in the context when a valid session
// cookie is present, but lets anonymous requests through. The home page
// uses this to show "log in" vs "your notes" without gating anything.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := userIDFromCookie(tokens, r); ok {
				r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// userIDFromCookie extracts and validates the session cookie. An absent,
// expired, or tampered cookie all land in the same "not logged in" branch.
func userIDFromCookie(tokens *TokenService, r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", false
	}

	userID, err := tokens.Validate(cookie.Value)
	if err != nil {
		return "", false
	}

	return userID, true
}

// UserIDFromContext retrieves the authenticated userID placed in the
// context by RequireAuth or OptionalAuth. ok is false for anonymous
// requests.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
