// Package service holds the business rules, sitting between HTTP handlers
// and repositories. Handlers parse and render; repositories persist; the
// rules about who may do what, and when a slug is acceptable, live here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/form"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// NoteService implements the note use cases: create, list, read, edit,
// delete — always on behalf of a specific author.
//
// OWNERSHIP AS NOT-FOUND:
// every read of a specific note goes through the repository's owned-slug
// lookup, which matches slug AND author in one query. A note that exists
// but belongs to someone else is therefore indistinguishable from a note
// that doesn't exist — both come back ErrNotFound. That's deliberate: a
// 403 would confirm the slug is taken, letting strangers probe the
// keyspace.
type NoteService struct {
	notes  repository.NoteRepository
	logger *slog.Logger
}

// NewNoteService creates a NoteService.
func NewNoteService(notes repository.NoteRepository, logger *slog.Logger) *NoteService {
	return &NoteService{notes: notes, logger: logger}
}

// slugConflict is the field error for a taken slug: the submitted value
// with the fixed warning suffix, attached to the Slug field.
func slugConflict(slug string) error {
	return apperror.Conflict("Slug", slug+form.SlugWarning)
}

// Create stores a new note for authorID. The form must already be
// shape-validated; Create adds the store-wide uniqueness rule.
//
// The pre-check gives the friendly field error; the UNIQUE constraint in
// the store backstops the race where two requests pass the pre-check
// concurrently, and that late conflict is translated to the same field
// error so the user sees one message either way.
func (s *NoteService) Create(ctx context.Context, authorID string, f *form.NoteForm) (*model.Note, error) {
	taken, err := s.notes.SlugExists(ctx, f.Slug, "")
	if err != nil {
		return nil, fmt.Errorf("checking slug %q: %w", f.Slug, err)
	}
	if taken {
		return nil, slugConflict(f.Slug)
	}

	note := &model.Note{
		Title:    f.Title,
		Text:     f.Text,
		Slug:     f.Slug,
		AuthorID: authorID,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, slugConflict(f.Slug)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "note created",
		slog.String("note_id", note.ID),
		slog.String("slug", note.Slug),
		slog.String("author_id", authorID),
	)

	return note, nil
}

// List returns all of authorID's notes in creation order.
func (s *NoteService) List(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Note, error) {
	return s.notes.ListByAuthor(ctx, authorID, opts)
}

// Get returns the note with the given slug if authorID owns it, and
// ErrNotFound otherwise — whether the slug is free or taken by someone
// else.
func (s *NoteService) Get(ctx context.Context, authorID, slug string) (*model.Note, error) {
	return s.notes.GetOwnedBySlug(ctx, slug, authorID)
}

// Update edits an owned note in place. The slug may change; uniqueness is
// checked store-wide but the note's own current slug doesn't count as a
// collision. Author and creation time never change on edit.
func (s *NoteService) Update(ctx context.Context, authorID, slug string, f *form.NoteForm) (*model.Note, error) {
	note, err := s.notes.GetOwnedBySlug(ctx, slug, authorID)
	if err != nil {
		return nil, err
	}

	taken, err := s.notes.SlugExists(ctx, f.Slug, note.ID)
	if err != nil {
		return nil, fmt.Errorf("checking slug %q: %w", f.Slug, err)
	}
	if taken {
		return nil, slugConflict(f.Slug)
	}

	note.Title = f.Title
	note.Text = f.Text
	note.Slug = f.Slug

	if err := s.notes.Update(ctx, note); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, slugConflict(f.Slug)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "note updated",
		slog.String("note_id", note.ID),
		slog.String("slug", note.Slug),
	)

	return note, nil
}

// Delete removes an owned note. Same not-found semantics as Get: deleting
// a foreign or missing slug is ErrNotFound.
func (s *NoteService) Delete(ctx context.Context, authorID, slug string) error {
	note, err := s.notes.GetOwnedBySlug(ctx, slug, authorID)
	if err != nil {
		return err
	}

	if err := s.notes.Delete(ctx, note.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "note deleted",
		slog.String("note_id", note.ID),
		slog.String("slug", note.Slug),
	)

	return nil
}
