package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only for the duration of
// the test — fast, isolated, and destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser creates an account for notes to hang off (notes.author_id
// has a foreign key, so every note needs a real user).
func createTestUser(t *testing.T, db *DB, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username, PasswordHash: "x"}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestNote(t *testing.T, db *DB, authorID, title, slug string) *model.Note {
	t.Helper()
	note := &model.Note{Title: title, Text: "text of " + title, Slug: slug, AuthorID: authorID}
	if err := db.Create(context.Background(), note); err != nil {
		t.Fatalf("failed to create test note: %v", err)
	}
	return note
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestCreateNote(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")

	note := &model.Note{
		Title:    "First note",
		Text:     "some text",
		Slug:     "first-note",
		AuthorID: author.ID,
	}

	if err := db.Create(context.Background(), note); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if note.ID == "" {
		t.Error("Create() did not set note.ID")
	}
	if note.CreatedAt.IsZero() {
		t.Error("Create() did not set note.CreatedAt")
	}
	if note.UpdatedAt.IsZero() {
		t.Error("Create() did not set note.UpdatedAt")
	}
}

func TestCreateNote_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")

	createTestNote(t, db, author.ID, "Original", "taken-slug")

	// Slugs are global — even a DIFFERENT user can't reuse one.
	dup := &model.Note{Title: "Copycat", Text: "t", Slug: "taken-slug", AuthorID: other.ID}
	err := db.Create(context.Background(), dup)

	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() with duplicate slug: error = %v, want ErrConflict", err)
	}

	// The rejected insert must not have touched the store.
	count, err := db.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("note count after rejected insert = %d, want 1", count)
	}
}

// =========================================================================
// OWNER-SCOPED LOOKUP TESTS
// =========================================================================

func TestGetOwnedBySlug(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	created := createTestNote(t, db, author.ID, "Fetch me", "fetch-me")

	found, err := db.GetOwnedBySlug(context.Background(), "fetch-me", author.ID)
	if err != nil {
		t.Fatalf("GetOwnedBySlug() error = %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
	if found.Title != "Fetch me" {
		t.Errorf("Title = %q, want %q", found.Title, "Fetch me")
	}
	if found.AuthorID != author.ID {
		t.Errorf("AuthorID = %q, want %q", found.AuthorID, author.ID)
	}
}

func TestGetOwnedBySlug_WrongAuthor(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	createTestNote(t, db, author.ID, "Private", "private-note")

	// Another user asking for an existing slug gets the SAME error as
	// asking for a missing one — ownership must not leak existence.
	_, err := db.GetOwnedBySlug(context.Background(), "private-note", reader.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetOwnedBySlug() as non-owner: error = %v, want ErrNotFound", err)
	}
}

func TestGetOwnedBySlug_MissingSlug(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")

	_, err := db.GetOwnedBySlug(context.Background(), "no-such-slug", author.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetOwnedBySlug() for missing slug: error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestListByAuthor_FiltersOtherUsers(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")

	createTestNote(t, db, author.ID, "Mine 1", "mine-1")
	createTestNote(t, db, author.ID, "Mine 2", "mine-2")
	createTestNote(t, db, other.ID, "Theirs", "theirs-1")

	notes, err := db.ListByAuthor(context.Background(), author.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByAuthor() error = %v", err)
	}

	if len(notes) != 2 {
		t.Fatalf("ListByAuthor() returned %d notes, want 2", len(notes))
	}
	for _, n := range notes {
		if n.AuthorID != author.ID {
			t.Errorf("ListByAuthor() leaked a note owned by %q", n.AuthorID)
		}
	}
}

func TestListByAuthor_CreationOrder(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")

	wantSlugs := []string{"note-a", "note-b", "note-c"}
	for _, slug := range wantSlugs {
		createTestNote(t, db, author.ID, "Note "+slug, slug)
	}

	notes, err := db.ListByAuthor(context.Background(), author.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByAuthor() error = %v", err)
	}
	if len(notes) != len(wantSlugs) {
		t.Fatalf("ListByAuthor() returned %d notes, want %d", len(notes), len(wantSlugs))
	}

	// Oldest first, and stable across repeated calls.
	for i, slug := range wantSlugs {
		if notes[i].Slug != slug {
			t.Errorf("notes[%d].Slug = %q, want %q", i, notes[i].Slug, slug)
		}
	}

	again, err := db.ListByAuthor(context.Background(), author.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByAuthor() second call error = %v", err)
	}
	for i := range notes {
		if again[i].ID != notes[i].ID {
			t.Errorf("ordering is not stable: position %d changed between calls", i)
		}
	}
}

func TestListByAuthor_Empty(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")

	notes, err := db.ListByAuthor(context.Background(), author.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByAuthor() error = %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("ListByAuthor() returned %d notes, want 0", len(notes))
	}
}

// =========================================================================
// SLUG EXISTS TESTS
// =========================================================================

func TestSlugExists(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	note := createTestNote(t, db, author.ID, "Note", "existing-slug")

	exists, err := db.SlugExists(context.Background(), "existing-slug", "")
	if err != nil {
		t.Fatalf("SlugExists() error = %v", err)
	}
	if !exists {
		t.Error("SlugExists() = false for an existing slug, want true")
	}

	exists, err = db.SlugExists(context.Background(), "free-slug", "")
	if err != nil {
		t.Fatalf("SlugExists() error = %v", err)
	}
	if exists {
		t.Error("SlugExists() = true for a free slug, want false")
	}

	// Excluding the note itself: editing a note that keeps its slug must
	// not count as a collision.
	exists, err = db.SlugExists(context.Background(), "existing-slug", note.ID)
	if err != nil {
		t.Fatalf("SlugExists() error = %v", err)
	}
	if exists {
		t.Error("SlugExists() = true when excluding the note itself, want false")
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestUpdateNote(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	original := createTestNote(t, db, author.ID, "Original title", "original-slug")

	original.Title = "Updated title"
	original.Text = "updated text"
	original.Slug = "updated-slug"

	if err := db.Update(context.Background(), original); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.GetOwnedBySlug(context.Background(), "updated-slug", author.ID)
	if err != nil {
		t.Fatalf("GetOwnedBySlug() after update error = %v", err)
	}
	if found.Title != "Updated title" {
		t.Errorf("Title = %q, want %q", found.Title, "Updated title")
	}
	if found.Text != "updated text" {
		t.Errorf("Text = %q, want %q", found.Text, "updated text")
	}
	if found.AuthorID != author.ID {
		t.Errorf("AuthorID changed on update: %q, want %q", found.AuthorID, author.ID)
	}

	// The old slug no longer resolves.
	if _, err := db.GetOwnedBySlug(context.Background(), "original-slug", author.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("old slug still resolves after update: error = %v, want ErrNotFound", err)
	}
}

func TestUpdateNote_DuplicateSlug(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	createTestNote(t, db, author.ID, "First", "slug-one")
	second := createTestNote(t, db, author.ID, "Second", "slug-two")

	second.Slug = "slug-one"
	err := db.Update(context.Background(), second)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Update() onto a taken slug: error = %v, want ErrConflict", err)
	}

	// The note must be unchanged in the store.
	found, err := db.GetOwnedBySlug(context.Background(), "slug-two", author.ID)
	if err != nil {
		t.Fatalf("GetOwnedBySlug() after failed update error = %v", err)
	}
	if found.Title != "Second" {
		t.Errorf("Title after failed update = %q, want %q", found.Title, "Second")
	}
}

func TestUpdateNote_KeepsOwnSlug(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	note := createTestNote(t, db, author.ID, "Title", "stable-slug")

	// Saving an edit without changing the slug must not self-collide.
	note.Title = "New title"
	if err := db.Update(context.Background(), note); err != nil {
		t.Fatalf("Update() keeping own slug: error = %v", err)
	}
}

func TestUpdateNote_NotFound(t *testing.T) {
	db := newTestDB(t)

	note := &model.Note{ID: "nonexistent", Title: "t", Text: "t", Slug: "s"}
	err := db.Update(context.Background(), note)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestDeleteNote(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	note := createTestNote(t, db, author.ID, "Doomed", "doomed-note")

	if err := db.Delete(context.Background(), note.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetOwnedBySlug(context.Background(), "doomed-note", author.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetOwnedBySlug() after delete: error = %v, want ErrNotFound", err)
	}

	count, err := db.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("note count after delete = %d, want 0", count)
	}
}

func TestDeleteNote_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// FULL LIFECYCLE TEST
// =========================================================================

// TestNoteLifecycle runs create → read → update → delete against one
// database. Catches cross-operation issues the focused tests can miss.
func TestNoteLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := createTestUser(t, db, "author")

	// 1. Create
	note := &model.Note{
		Title:    "Lifecycle",
		Text:     "v1",
		Slug:     "lifecycle",
		AuthorID: author.ID,
	}
	if err := db.Create(ctx, note); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 2. Read
	found, err := db.GetOwnedBySlug(ctx, "lifecycle", author.ID)
	if err != nil {
		t.Fatalf("GetOwnedBySlug: %v", err)
	}
	if found.Text != "v1" {
		t.Errorf("Text = %q, want %q", found.Text, "v1")
	}

	// 3. List contains exactly the one note
	all, err := db.ListByAuthor(ctx, author.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListByAuthor returned %d, want 1", len(all))
	}

	// 4. Update
	found.Text = "v2"
	if err := db.Update(ctx, found); err != nil {
		t.Fatalf("Update: %v", err)
	}
	updated, err := db.GetOwnedBySlug(ctx, "lifecycle", author.ID)
	if err != nil {
		t.Fatalf("GetOwnedBySlug after update: %v", err)
	}
	if updated.Text != "v2" {
		t.Errorf("Text after update = %q, want %q", updated.Text, "v2")
	}

	// 5. Delete
	if err := db.Delete(ctx, note.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	final, err := db.ListByAuthor(ctx, author.ID, repository.ListOptions{})
	if err != nil {
		t.Fatalf("ListByAuthor after delete: %v", err)
	}
	if len(final) != 0 {
		t.Errorf("ListByAuthor after delete returned %d, want 0", len(final))
	}
}
