package model

import "time"

// User represents a registered user account.
//
// Accounts are created either through the signup form (username + password)
// or through GitHub OAuth. We generate our own internal string ID (xid) so
// primary keys never depend on a third party's numbering scheme.
//
// WHY PasswordHash string (not *string)?
// OAuth-only accounts never set a password. We use an empty string as the
// zero value rather than a nullable pointer — simpler to work with, and the
// auth service treats an empty hash as "password login disabled".
//
// GitHubID is 0 for accounts that never linked GitHub. When set, the UNIQUE
// constraint on the column ensures one GitHub account maps to exactly one
// app account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // unique, shown in the navbar
	PasswordHash string    `json:"-"`        // bcrypt hash; never serialized
	GitHubID     int64     `json:"-"`        // 0 when the account has no GitHub link
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
