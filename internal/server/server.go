// Package server is the composition root: it wires the database,
// services, handlers, and middleware into one router, and owns the
// listen/shutdown lifecycle. main.go stays minimal — read config, build a
// Server, Start it.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/handler"
	"github.com/sakif/notekeeper/internal/middleware"
	sqliteRepo "github.com/sakif/notekeeper/internal/repository/sqlite"
	"github.com/sakif/notekeeper/internal/service"
	"github.com/sakif/notekeeper/web"
)

// loginPath is where RequireAuth sends anonymous browsers.
const loginPath = "/auth/login"

// Config holds everything the server needs from the environment.
type Config struct {
	Port          int
	DBPath        string
	SessionSecret string

	// GitHub OAuth is optional: leave the client ID empty and the
	// /auth/github routes are simply not mounted.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL gets flushed and the file
// lock released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
// sqlite.DB → services → handlers → routes. Each layer only sees the
// layer below it — handlers never touch the database, services never
// touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and mounts every page.
//
// ROUTE MAP:
//
//	GET  /                       home (works logged out)
//	GET  /done                   success confirmation
//	GET  /notes/                 list own notes
//	GET  /notes/add              blank note form
//	POST /notes/add              create note
//	GET  /notes/{slug}           note detail
//	GET  /notes/{slug}/edit      pre-filled edit form
//	POST /notes/{slug}/edit      apply edit
//	POST /notes/{slug}/delete    delete note (DELETE also accepted)
//	GET+POST /auth/login|signup  session management
//	POST /auth/logout
//	GET  /auth/github/login|callback   (only when OAuth is configured)
//
// Everything under /notes and /done requires a session; anonymous
// requests are redirected to /auth/login?next=<original-path>.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	renderer, err := handler.NewRenderer(web.Templates, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	tokens, err := auth.NewTokenService(s.config.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	noteService := service.NewNoteService(s.db, s.logger)
	authService := service.NewAuthService(s.db, auth.NewPasswordService(), tokens, s.logger)

	pageHandler := handler.NewPageHandler(authService, renderer)
	noteHandler := handler.NewNoteHandler(noteService, renderer)
	authHandler := handler.NewAuthHandler(authService, github, renderer)

	// Home: visible to everyone, but knows whether you're logged in.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.OptionalAuth(tokens))
		r.Get("/", pageHandler.Home)
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.LoginSubmit)
		r.Get("/signup", authHandler.SignupForm)
		r.Post("/signup", authHandler.SignupSubmit)
		r.Post("/logout", authHandler.Logout)

		if github != nil {
			r.Get("/github/login", authHandler.GitHubLogin)
			r.Get("/github/callback", authHandler.GitHubCallback)
		}
	})

	// Everything below needs a session.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, loginPath))

		r.Get(handler.SuccessPath, pageHandler.Success)

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", noteHandler.List)
			r.Get("/add", noteHandler.AddForm)
			r.Post("/add", noteHandler.AddSubmit)
			r.Get("/{slug}", noteHandler.Detail)
			r.Get("/{slug}/edit", noteHandler.EditForm)
			r.Post("/{slug}/edit", noteHandler.EditSubmit)
			r.Post("/{slug}/delete", noteHandler.Delete)
			r.Delete("/{slug}/delete", noteHandler.Delete)
		})
	})

	return nil
}

// Handler exposes the router, mainly so tests can drive the whole server
// through httptest without opening a real port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself; Close
// exists for callers (tests) that never Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
