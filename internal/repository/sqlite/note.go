package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// Compile-time check that *DB implements repository.NoteRepository.
// `var _ X = (*Y)(nil)` fails the build immediately if a method is missing,
// instead of at the first call site that passes *DB as the interface.
var _ repository.NoteRepository = (*DB)(nil)

// Create inserts a new note.
//
// The ID is generated here with xid — 20 chars, URL-safe, sortable by
// creation time. The caller's struct is modified in place (pointer
// receiver) so it carries the generated ID and timestamps afterwards.
//
// A duplicate slug surfaces as apperror.ErrConflict. The form layer
// normally catches duplicates before we get here, but the UNIQUE
// constraint is what makes the guarantee hold under concurrent writes.
func (db *DB) Create(ctx context.Context, note *model.Note) error {
	note.ID = xid.New().String()

	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO notes (id, title, text, slug, author_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		note.ID,
		note.Title,
		note.Text,
		note.Slug,
		note.AuthorID,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "notes.slug") {
			return apperror.Conflict("slug", fmt.Sprintf("slug %q is already in use", note.Slug))
		}
		return fmt.Errorf("sqlite: creating note: %w", err)
	}

	return nil
}

// GetOwnedBySlug retrieves a note by slug, scoped to its author.
//
// The WHERE clause carries both conditions, so a slug owned by another user
// falls into the same sql.ErrNoRows branch as a slug that doesn't exist.
// That single query is what keeps "not yours" indistinguishable from
// "not there" — there is no separate ownership check to get wrong.
func (db *DB) GetOwnedBySlug(ctx context.Context, slug, authorID string) (*model.Note, error) {
	var note model.Note

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, text, slug, author_id, created_at, updated_at
		 FROM notes
		 WHERE slug = ? AND author_id = ?`,
		slug, authorID,
	).Scan(
		&note.ID,
		&note.Title,
		&note.Text,
		&note.Slug,
		&note.AuthorID,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("note", slug)
		}
		return nil, fmt.Errorf("sqlite: getting note %s: %w", slug, err)
	}

	return &note, nil
}

// ListByAuthor returns the author's notes in creation order (oldest first).
//
// ORDER BY created_at, id: xid values sort by creation time, so the id
// tiebreak keeps the order deterministic even when two notes share the
// same timestamp.
func (db *DB) ListByAuthor(ctx context.Context, authorID string, opts repository.ListOptions) ([]model.Note, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, title, text, slug, author_id, created_at, updated_at
		 FROM notes
		 WHERE author_id = ?
		 ORDER BY created_at ASC, id ASC
		 LIMIT ? OFFSET ?`,
		authorID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing notes: %w", err)
	}
	defer rows.Close()

	notes := make([]model.Note, 0, limit)
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(
			&n.ID, &n.Title, &n.Text, &n.Slug, &n.AuthorID,
			&n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating notes: %w", err)
	}

	return notes, nil
}

// SlugExists reports whether any note other than excludeID uses the slug.
// The exclusion is what lets a user save an edit that keeps their own slug.
func (db *DB) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE slug = ? AND id != ?`,
		slug, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking slug %s: %w", slug, err)
	}
	return count > 0, nil
}

// Update modifies an existing note's title, text, and slug. The author and
// creation timestamp never change. RowsAffected detects "not found" without
// a separate SELECT.
func (db *DB) Update(ctx context.Context, note *model.Note) error {
	note.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE notes
		 SET title = ?, text = ?, slug = ?, updated_at = ?
		 WHERE id = ?`,
		note.Title,
		note.Text,
		note.Slug,
		note.UpdatedAt,
		note.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "notes.slug") {
			return apperror.Conflict("slug", fmt.Sprintf("slug %q is already in use", note.Slug))
		}
		return fmt.Errorf("sqlite: updating note %s: %w", note.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", note.ID)
	}

	return nil
}

// Delete removes a note by its internal ID.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting note %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("note", id)
	}

	return nil
}

// Count returns the total number of notes across all users.
func (db *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting notes: %w", err)
	}
	return count, nil
}
