package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/Neio/wordmaster/internal/channel"
	"github.com/Neio/wordmaster/internal/drill"
	"github.com/Neio/wordmaster/internal/library"
	"github.com/Neio/wordmaster/internal/platform/config"
	"github.com/Neio/wordmaster/internal/platform/database"
	"github.com/Neio/wordmaster/internal/speech"
	"github.com/Neio/wordmaster/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(os.Stdout, cfg.Log))

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	store, err := storage.Open(ctx, storage.Options{
		Engine:      cfg.Storage.Engine,
		Path:        cfg.Storage.Path,
		KeyPrefix:   cfg.Storage.KeyPrefix,
		CacheURL:    cfg.Cache.URL,
		DatabaseURL: cfg.Database.URL,
		PoolSize:    database.PoolSize{Max: cfg.Database.MaxConns, Min: cfg.Database.MinConns},
	})
	if err != nil {
		slog.Error("failed to open storage", "engine", cfg.Storage.Engine, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	lib, err := library.NewLoader(cfg.LibraryPath)
	if err != nil {
		slog.Error("failed to load word library", "path", cfg.LibraryPath, "error", err)
		os.Exit(1)
	}

	engine := drill.NewEngine(ctx, drill.EngineConfig{
		Library: lib,
		Store:   store,
		Speech: speech.Config{
			Lang:  cfg.Speech.Lang,
			Rate:  cfg.Speech.Rate,
			Delay: cfg.Speech.Delay,
		},
		Mute: !cfg.Speech.Enabled,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(engine, cfg.CORS.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No read or write timeout: /ws connections stay open for a whole drill.
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "storage", cfg.Storage.Engine)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// newLogger builds the process logger from LogConfig.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// newHandler wraps the router with CORS for the browser client.
func newHandler(engine *drill.Engine, allowedOrigins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(newMux(engine, allowedOrigins))
}

// newMux creates the HTTP router with health, API and live channel endpoints.
func newMux(engine *drill.Engine, allowedOrigins []string) *http.ServeMux {
	h := &api{engine: engine}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealthz)
	mux.HandleFunc("GET /readyz", h.handleReadyz)
	mux.HandleFunc("GET /api/lessons", h.handleLessons)
	mux.HandleFunc("GET /api/progress", h.handleProgress)
	mux.HandleFunc("GET /api/theme", h.handleTheme)
	mux.HandleFunc("POST /api/theme/toggle", h.handleToggleTheme)
	mux.Handle("GET /ws", channel.NewWebSocketHandler(engine, allowedOrigins))
	return mux
}

type api struct {
	engine *drill.Engine
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (a *api) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := a.engine.Ping(ctx); err != nil {
		slog.Warn("readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

func (a *api) handleLessons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"lessons": a.engine.Lessons()})
}

func (a *api) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.engine.Progress())
}

func (a *api) handleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"theme": a.engine.Theme()})
}

func (a *api) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := a.engine.ToggleTheme(r.Context())
	if err != nil {
		slog.Error("failed to save theme", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "theme could not be saved"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"theme": theme})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
