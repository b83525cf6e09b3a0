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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user account. The UNIQUE constraint on username
// surfaces as apperror.ErrConflict so the signup form can attach the error
// to the username field.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, github_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.GitHubID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users.username") {
			// "Username" matches the form field key the signup template
			// reads, so the conflict renders inline like a shape error.
			return apperror.Conflict("Username", fmt.Sprintf("username %q is already taken", user.Username))
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `id = ?`, id)
}

// GetUserByUsername retrieves a user by their unique username.
// Returns apperror.ErrNotFound if no user exists with that username.
// Login uses this; the service deliberately collapses "no such user" and
// "wrong password" into one message so usernames can't be enumerated.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `username = ?`, username)
}

// getUser is the shared SELECT for the two lookup methods. The where
// fragment is a compile-time constant at both call sites, never user input.
func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, github_id, created_at, updated_at
		 FROM users WHERE `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.GitHubID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// UpsertByGitHubID inserts or updates a user keyed by their GitHub ID.
//
// First OAuth login → INSERT a new account; subsequent logins → UPDATE the
// username in case it changed on GitHub, keeping the existing internal ID
// so the user's notes stay attached. GitHub's numeric ID is stable, which
// is why it's the upsert key rather than the (renameable) login.
func (db *DB) UpsertByGitHubID(ctx context.Context, user *model.User) error {
	if user.GitHubID == 0 {
		return fmt.Errorf("sqlite: upserting user: GitHub ID must be set")
	}

	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET username = ?, updated_at = ? WHERE id = ?`,
			user.Username,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			if isUniqueViolation(err, "users.username") {
				return apperror.Conflict("Username", fmt.Sprintf("username %q is already taken", user.Username))
			}
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	return db.CreateUser(ctx, user)
}
