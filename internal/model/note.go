// Package model defines the core data structures — notes and the users who
// own them. These are plain structs with no behaviour; every layer from the
// repository up shares them.
package model

import "time"

// Note represents a personal text note belonging to exactly one user.
//
// The slug is the note's public identifier: it appears in URLs
// (/notes/{slug}) instead of the opaque internal ID. Slugs are globally
// unique — the notes table carries a UNIQUE constraint on the column, so
// a duplicate can never be persisted even if application-level validation
// is bypassed.
//
// AuthorID references the owning user. A note is only ever visible to its
// author; requests for someone else's slug behave exactly like requests
// for a slug that doesn't exist.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Slug      string    `json:"slug"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
