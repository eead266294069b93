// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/munin/internal/api"
	"github.com/starford/munin/internal/dailynote"
	"github.com/starford/munin/internal/mcpserver"
	"github.com/starford/munin/internal/memorylog"
	"github.com/starford/munin/internal/overview"
	"github.com/starford/munin/internal/sse"
	"github.com/starford/munin/internal/storage"
	"github.com/starford/munin/internal/todo"
	"github.com/starford/munin/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger. Logs go to stderr: stdout
	// carries the MCP protocol stream.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	absRoot, err := filepath.Abs(cfg.Workspace.Root)
	if err != nil {
		return fmt.Errorf("resolve workspace root: %w", err)
	}

	logger.Info("Configuration loaded",
		slog.String("workspace_root", absRoot),
		slog.String("memory_file", cfg.Workspace.MemoryFile),
		slog.String("notes_dir", cfg.Workspace.NotesDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Ensure workspace directories exist.
	if err := os.MkdirAll(filepath.Join(absRoot, cfg.Workspace.NotesDir), 0o755); err != nil {
		return fmt.Errorf("create workspace dirs: %w", err)
	}

	// Initialize storage and services.
	store, err := storage.NewFS(absRoot)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	memory := memorylog.New(store, cfg.Workspace.MemoryFile)
	notes := dailynote.New(store, cfg.Workspace.NotesDir)
	todos := todo.New(notes, cfg.Markers.Pending, cfg.Markers.Done)
	ov := overview.NewService(notes, todos, absRoot)

	mcpSrv := mcpserver.New(memory, notes, todos, ov)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(runCtx)

	// MCP stdio server. When the client disconnects the whole
	// application winds down.
	g.Go(func() error {
		defer cancel()
		logger.Info("Starting MCP stdio server")
		if err := mcpSrv.ServeStdio(); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server error: %w", err)
		}
		return nil
	})

	// Optional HTTP inspection API with workspace change events.
	if cfg.App.HTTP.Enabled() {
		broker := sse.NewBroker()
		defer broker.Close()

		g.Go(func() error {
			return watch.Run(gCtx, absRoot, cfg.Workspace.MemoryFile, cfg.Workspace.NotesDir,
				logger, broker.PublishChange)
		})

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)

		r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		h := api.NewHandler(memory, notes, todos, ov)
		r.Mount("/api", api.NewRouter(h, http.HandlerFunc(broker.ServeHTTP)))

		httpServer := &http.Server{
			Addr:    cfg.App.HTTP.Address(),
			Handler: r,
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case sig := <-quit:
				logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			case <-gCtx.Done():
				logger.Info("Context cancelled, initiating shutdown")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
			cancel()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
