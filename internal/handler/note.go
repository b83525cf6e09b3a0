package handler

import (
	"net/http"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/form"
	"github.com/sakif/notekeeper/internal/repository"
	"github.com/sakif/notekeeper/internal/service"
)

// NoteHandler serves the note pages. Every route here sits behind
// RequireAuth, so the userID is always in the context.
type NoteHandler struct {
	notes    *service.NoteService
	renderer *Renderer
}

// NewNoteHandler creates a NoteHandler.
func NewNoteHandler(notes *service.NoteService, renderer *Renderer) *NoteHandler {
	return &NoteHandler{notes: notes, renderer: renderer}
}

// List handles GET /notes/ — the user's notes in creation order.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	notes, err := h.notes.List(r.Context(), userID, repository.ListOptions{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.render(w, r, http.StatusOK, "list", &templateData{
		IsAuthenticated: true,
		ObjectList:      notes,
	})
}

// Detail handles GET /notes/{slug}.
func (h *NoteHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	note, err := h.notes.Get(r.Context(), userID, r.PathValue("slug"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.render(w, r, http.StatusOK, "detail", &templateData{
		IsAuthenticated: true,
		Note:            note,
	})
}

// AddForm handles GET /notes/add — a blank form.
func (h *NoteHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "note_form", &templateData{
		IsAuthenticated: true,
		Form:            &form.NoteForm{Errors: map[string]string{}},
	})
}

// AddSubmit handles POST /notes/add. A clean submission persists the note
// and redirects to the success page; any error re-renders the form with the
// submitted values intact so nothing the user typed is lost.
func (h *NoteHandler) AddSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	f := form.ParseNoteForm(r)
	if !f.Validate() {
		h.renderFormAgain(w, r, f, false)
		return
	}

	if _, err := h.notes.Create(r.Context(), userID, f); err != nil {
		if attachFieldError(err, f.Errors) {
			h.renderFormAgain(w, r, f, false)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, SuccessPath, http.StatusFound)
}

// EditForm handles GET /notes/{slug}/edit — the form pre-filled with the
// stored note.
func (h *NoteHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	note, err := h.notes.Get(r.Context(), userID, r.PathValue("slug"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.render(w, r, http.StatusOK, "note_form", &templateData{
		IsAuthenticated: true,
		Editing:         true,
		Form: &form.NoteForm{
			Title:  note.Title,
			Text:   note.Text,
			Slug:   note.Slug,
			Errors: map[string]string{},
		},
	})
}

// EditSubmit handles POST /notes/{slug}/edit.
func (h *NoteHandler) EditSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	f := form.ParseNoteForm(r)
	if !f.Validate() {
		h.renderFormAgain(w, r, f, true)
		return
	}

	if _, err := h.notes.Update(r.Context(), userID, r.PathValue("slug"), f); err != nil {
		if attachFieldError(err, f.Errors) {
			h.renderFormAgain(w, r, f, true)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, SuccessPath, http.StatusFound)
}

// Delete handles POST and DELETE on /notes/{slug}/delete. No confirmation
// page: ownership is the only gate, and a foreign or missing slug is a 404.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.notes.Delete(r.Context(), userID, r.PathValue("slug")); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, SuccessPath, http.StatusFound)
}

// renderFormAgain re-renders the note form with errors. The response is a
// 200 render, not a redirect — the browser keeps showing the form page,
// and editing keeps the page rendering as the edit form rather than add.
func (h *NoteHandler) renderFormAgain(w http.ResponseWriter, r *http.Request, f *form.NoteForm, editing bool) {
	h.renderer.render(w, r, http.StatusOK, "note_form", &templateData{
		IsAuthenticated: true,
		Editing:         editing,
		Form:            f,
	})
}
