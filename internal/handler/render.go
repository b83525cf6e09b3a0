// Package handler contains the HTTP layer: parse the request, call a
// service, and either render an HTML page or redirect. No business rules
// live here — handlers translate between HTTP and the service layer.
package handler

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
)

// SuccessPath is where every successful mutation redirects to.
const SuccessPath = "/done"

// templateData is the single context shape every template receives.
// Only the fields relevant to a given page are populated:
// ObjectList on the list page, Note on the detail page, Form on the
// add/edit/login/signup pages.
type templateData struct {
	IsAuthenticated bool
	Username        string // current user's name, where the page loads it
	ObjectList      []model.Note
	Note            *model.Note
	Form            any
	Editing         bool // note form: edit page rather than add
	Next            string
	FormError       string
	GitHubEnabled   bool
}

// Renderer parses the page templates once at startup and renders them with
// a shared base layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// pageNames lists every page template; each is parsed together with
// base.html so {{template "base" .}} resolves.
var pageNames = []string{
	"home", "list", "detail", "note_form", "success",
	"login", "signup", "not_found",
}

// NewRenderer parses the templates from fsys, which must contain
// templates/base.html and templates/<page>.html for every page.
func NewRenderer(fsys fs.FS, logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	for _, name := range pageNames {
		t, err := template.ParseFS(fsys, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// render writes a page with the given status code. A template failure at
// this point can only be a programming error, so it logs and falls back to
// a bare 500.
func (rn *Renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data *templateData) {
	t, ok := rn.pages[page]
	if !ok {
		rn.logger.ErrorContext(r.Context(), "unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		rn.logger.ErrorContext(r.Context(), "rendering template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// renderError maps a service error to an HTML response. Not-found gets the
// 404 page (covering both missing and foreign notes); anything unexpected
// gets logged and a 500.
func (rn *Renderer) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		rn.render(w, r, http.StatusNotFound, "not_found", &templateData{IsAuthenticated: true})
	default:
		rn.logger.ErrorContext(r.Context(), "handler error",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// attachFieldError copies an AppError's field and message into a form's
// error map, so service-level errors (slug taken, username taken) render
// exactly like shape errors. Returns false if err carries no field.
func attachFieldError(err error, errs map[string]string) bool {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "" {
		errs[appErr.Field] = appErr.Message
		return true
	}
	return false
}
