// Command server runs the notekeeper web app.
//
// Configuration comes from the environment (with a .env file picked up in
// development):
//
//	PORT                  HTTP port (default 8080)
//	DB_PATH               SQLite database file (default notekeeper.db)
//	SESSION_SECRET        HMAC secret for session tokens (required)
//	GITHUB_CLIENT_ID      GitHub OAuth app client ID (optional)
//	GITHUB_CLIENT_SECRET  GitHub OAuth app client secret
//	GITHUB_CALLBACK_URL   registered OAuth callback URL
package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sakif/notekeeper/internal/server"
)

func main() {
	// A missing .env is fine — production sets real environment variables.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := server.Config{
		Port:               envInt("PORT", 8080),
		DBPath:             envString("DB_PATH", "notekeeper.db"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
	}

	if cfg.SessionSecret == "" {
		logger.Error("SESSION_SECRET is required; generate one with: openssl rand -hex 32")
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
