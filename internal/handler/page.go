package handler

import (
	"net/http"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/service"
)

// PageHandler serves the static-ish pages: home and the success
// confirmation.
type PageHandler struct {
	auths    *service.AuthService
	renderer *Renderer
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(auths *service.AuthService, renderer *Renderer) *PageHandler {
	return &PageHandler{auths: auths, renderer: renderer}
}

// Home handles GET /. It sits behind OptionalAuth: anonymous visitors see
// the landing pitch, logged-in users are greeted by name. A failed user
// lookup (say, an account deleted while its session is still live) just
// drops the greeting — the page still renders.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := &templateData{}

	if userID, ok := auth.UserIDFromContext(r.Context()); ok {
		data.IsAuthenticated = true
		if user, err := h.auths.GetUser(r.Context(), userID); err == nil {
			data.Username = user.Username
		}
	}

	h.renderer.render(w, r, http.StatusOK, "home", data)
}

// Success handles GET /done — the confirmation page every successful
// add/edit/delete redirects to.
func (h *PageHandler) Success(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "success", &templateData{
		IsAuthenticated: true,
	})
}
