// Package repository declares the persistence interfaces the service layer
// programs against. The sqlite subpackage provides the real implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/notekeeper/internal/model"
)

// ListOptions controls pagination for list queries.
// Zero values mean "use defaults" (the implementation clamps them).
type ListOptions struct {
	Limit  int
	Offset int
}

// NoteRepository is the storage contract for notes.
//
// Uniqueness of slugs is enforced by the store itself (UNIQUE constraint),
// not just by application-level checks — Create and Update return an error
// matching apperror.ErrConflict when a slug collides, which closes the race
// between a SlugExists pre-check and the write.
type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	// GetOwnedBySlug looks a note up by slug scoped to its author. It returns
	// an error matching apperror.ErrNotFound both when the slug is absent and
	// when the note belongs to someone else, so callers cannot distinguish
	// the two cases.
	GetOwnedBySlug(ctx context.Context, slug, authorID string) (*model.Note, error)
	// ListByAuthor returns only the given author's notes, in creation order
	// (oldest first) — stable across repeated calls for the same data.
	ListByAuthor(ctx context.Context, authorID string, opts ListOptions) ([]model.Note, error)
	// SlugExists reports whether any note other than excludeID uses the slug.
	// Pass excludeID="" when creating (no note to exclude).
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id string) error
	// Count returns the total number of notes across all users. Used by the
	// logic tests to assert that rejected operations leave the store unchanged.
	Count(ctx context.Context) (int, error)
}

// UserRepository is the storage contract for user accounts.
//
// The user methods carry a "User" infix because the sqlite implementation
// satisfies this interface and NoteRepository on the same receiver — a
// bare Create would collide with the note Create.
type UserRepository interface {
	// CreateUser inserts a new account. Returns an error matching
	// apperror.ErrConflict if the username is already taken.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// UpsertByGitHubID inserts or updates an account keyed by its GitHub ID.
	// Used by the OAuth callback: first login creates the account, later
	// logins refresh the username in case it changed on GitHub.
	UpsertByGitHubID(ctx context.Context, user *model.User) error
}
