package handler

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/form"
	"github.com/sakif/notekeeper/internal/service"
)

// stateCookie carries the OAuth CSRF state between the redirect to GitHub
// and the callback.
const stateCookie = "oauth_state"

// AuthHandler serves login, signup, logout, and the optional GitHub OAuth
// flow. github is nil when OAuth isn't configured; the routes simply
// aren't mounted then.
type AuthHandler struct {
	auths    *service.AuthService
	github   *auth.GitHubProvider
	renderer *Renderer
}

// NewAuthHandler creates an AuthHandler. github may be nil.
func NewAuthHandler(auths *service.AuthService, github *auth.GitHubProvider, renderer *Renderer) *AuthHandler {
	return &AuthHandler{auths: auths, github: github, renderer: renderer}
}

// LoginForm handles GET /auth/login. The "next" query parameter — set by
// RequireAuth when it bounced an anonymous request here — is threaded into
// the form so the eventual POST knows where to continue.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "login", &templateData{
		Form:          &form.LoginForm{Errors: map[string]string{}},
		Next:          r.URL.Query().Get("next"),
		GitHubEnabled: h.github != nil,
	})
}

// LoginSubmit handles POST /auth/login.
func (h *AuthHandler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	next := r.PostFormValue("next")

	f := form.ParseLoginForm(r)
	if !f.Validate() {
		h.renderLoginAgain(w, r, f, next, "")
		return
	}

	res, err := h.auths.Login(r.Context(), f.Username, f.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.renderLoginAgain(w, r, f, next, err.Error())
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, res.Token)
	http.Redirect(w, r, safeNext(next), http.StatusFound)
}

// SignupForm handles GET /auth/signup.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "signup", &templateData{
		Form: &form.SignupForm{Errors: map[string]string{}},
	})
}

// SignupSubmit handles POST /auth/signup. A successful signup logs the new
// account straight in.
func (h *AuthHandler) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	f := form.ParseSignupForm(r)
	if !f.Validate() {
		h.renderSignupAgain(w, r, f)
		return
	}

	res, err := h.auths.Signup(r.Context(), f.Username, f.Password)
	if err != nil {
		if attachFieldError(err, f.Errors) {
			h.renderSignupAgain(w, r, f)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, res.Token)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles POST /auth/logout. Logout is a POST so a hostile <img>
// tag can't log the user out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// GitHubLogin handles GET /auth/github/login: stash a random state in a
// cookie and send the browser to GitHub.
func (h *AuthHandler) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := randomState()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusFound)
}

// GitHubCallback handles GET /auth/github/callback. The state from the
// query must match the cookie set by GitHubLogin, or the whole flow is
// rejected.
func (h *AuthHandler) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	// State is single-use.
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})

	ghUser, err := h.github.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	res, err := h.auths.LoginGitHub(r.Context(), ghUser)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, res.Token)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) renderLoginAgain(w http.ResponseWriter, r *http.Request, f *form.LoginForm, next, formError string) {
	h.renderer.render(w, r, http.StatusOK, "login", &templateData{
		Form:          f,
		Next:          next,
		FormError:     formError,
		GitHubEnabled: h.github != nil,
	})
}

func (h *AuthHandler) renderSignupAgain(w http.ResponseWriter, r *http.Request, f *form.SignupForm) {
	h.renderer.render(w, r, http.StatusOK, "signup", &templateData{
		Form: f,
	})
}

// safeNext sanitizes a login continuation target. Only local paths are
// allowed — "//evil.example" and absolute URLs would turn the login page
// into an open redirect.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b) // crypto/rand.Read never fails on supported platforms
	return hex.EncodeToString(b)
}
