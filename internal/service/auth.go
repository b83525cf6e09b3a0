package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/notekeeper/internal/apperror"
	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/repository"
)

// ErrInvalidCredentials is returned for ANY login failure — unknown
// username or wrong password. One error for both means the login page
// can't be used to enumerate which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService orchestrates signup, login, and the GitHub OAuth path. It
// owns the "credentials → session token" step; cookie handling stays in
// the handlers.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	tokens    *auth.TokenService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger,
	}
}

// AuthResult is what a successful signup or login produces: the account
// and a signed session token ready to be set as a cookie.
type AuthResult struct {
	User  *model.User
	Token string
}

// Signup registers a new username/password account and logs it in.
// A taken username surfaces as apperror.ErrConflict with the field set,
// so the signup form can show it inline.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*AuthResult, error) {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user signed up",
		slog.String("user_id", user.ID),
		slog.String("username", username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies a username/password pair and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth-only accounts have no password hash; they can't log in with
	// the password form at all.
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// LoginGitHub logs a GitHub user in, creating the account on first visit.
// The upsert keys on GitHub's stable numeric ID, so renaming on GitHub
// doesn't orphan the user's notes.
func (s *AuthService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*AuthResult, error) {
	user := &model.User{
		Username: gh.Login,
		GitHubID: gh.ID,
	}

	if err := s.users.UpsertByGitHubID(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in via github",
		slog.String("user_id", user.ID),
		slog.Int64("github_id", gh.ID),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// GetUser loads an account by internal ID, for pages that show the
// current user's name.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetUserByID(ctx, id)
}
