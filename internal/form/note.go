package form

import (
	"net/http"

	goslug "github.com/gosimple/slug"
	"github.com/rs/xid"
)

// SlugWarning is the fixed suffix appended to a submitted slug when a note
// with that slug already exists. The full field error reads
// "<slug><SlugWarning>".
const SlugWarning = " — a note with this slug already exists, pick a unique value!"

// maxSlugLen bounds both submitted and auto-generated slugs.
const maxSlugLen = 100

// NoteForm carries the add/edit form fields plus any validation errors,
// keyed by field name ("Title", "Text", "Slug"). A form with errors is
// re-rendered with the submitted values intact so the user can fix and
// resubmit.
type NoteForm struct {
	Title string `validate:"required,max=100"`
	Text  string `validate:"required"`
	Slug  string `validate:"omitempty,max=100,slugchars"`

	Errors map[string]string `validate:"-"`
}

var noteMessages = map[string]string{
	"Title.required": "title is required",
	"Title.max":      "title must be 100 characters or fewer",
	"Text.required":  "text is required",
	"Slug.max":       "slug must be 100 characters or fewer",
	"Slug.slugchars": "slug may only contain letters, digits, hyphens and underscores",
}

// ParseNoteForm binds a NoteForm from a POST body.
func ParseNoteForm(r *http.Request) *NoteForm {
	return &NoteForm{
		Title:  r.PostFormValue("title"),
		Text:   r.PostFormValue("text"),
		Slug:   r.PostFormValue("slug"),
		Errors: map[string]string{},
	}
}

// Validate checks the shape rules and, when the slug field was left blank,
// derives one from the title. Returns true when the form is clean.
//
// Slug uniqueness is NOT checked here — that needs the note store and is
// the service's job.
func (f *NoteForm) Validate() bool {
	if err := validate.Struct(f); err != nil {
		f.Errors = fieldErrors(err, noteMessages)
		return false
	}

	if f.Slug == "" {
		f.Slug = slugFromTitle(f.Title)
	}

	f.Errors = map[string]string{}
	return true
}

// Valid reports whether the form currently has no errors. The service adds
// uniqueness errors after Validate, so templates check this, not Validate's
// return value.
func (f *NoteForm) Valid() bool {
	return len(f.Errors) == 0
}

// slugFromTitle builds a slug from the note title. goslug transliterates
// and lowercases; a title with nothing transliterable (e.g. all
// punctuation) would come back empty, and an empty slug is unreachable as
// a URL, so those fall back to a generated xid.
func slugFromTitle(title string) string {
	s := goslug.Make(title)
	if s == "" {
		return xid.New().String()
	}
	if len(s) > maxSlugLen {
		// The slug alphabet is single-byte, so a byte cut never splits a
		// character; just avoid ending on a hyphen.
		s = s[:maxSlugLen]
		for len(s) > 0 && s[len(s)-1] == '-' {
			s = s[:len(s)-1]
		}
	}
	return s
}
