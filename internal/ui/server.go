// Package ui serves the browser front end: one workspace per browser
// session, kept live over datastar SSE.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/bomscope/internal/dataset"
	"github.com/leapstack-labs/bomscope/internal/navigation"
	"github.com/leapstack-labs/bomscope/internal/simexplorer"
	"github.com/leapstack-labs/bomscope/internal/ui/metrics"
	"github.com/leapstack-labs/bomscope/internal/ui/notifier"
	"github.com/leapstack-labs/bomscope/internal/ui/registry"
	"github.com/leapstack-labs/bomscope/internal/ui/router"
	"github.com/leapstack-labs/bomscope/internal/workspace"
	"github.com/leapstack-labs/bomscope/pkg/core"
)

// reloadDebounce coalesces bursts of file events from editors.
const reloadDebounce = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	dataDir      string
	preferences  core.TabPreferences
	port         int
	watch        bool
	dev          bool
	pageSize     int
	toastDelay   time.Duration
	logger       *slog.Logger
	sessionStore *sessions.CookieStore
	notifier     *notifier.Notifier
	metrics      *metrics.Metrics
	registry     *registry.Registry

	mu      sync.RWMutex
	dataset *dataset.Dataset
}

// Config holds configuration for the UI server.
type Config struct {
	// DataDir is reloaded on change when Watch is set. Empty means the
	// dataset is the embedded sample and is never reloaded.
	DataDir     string
	Dataset     *dataset.Dataset
	Preferences core.TabPreferences
	Port        int
	Watch       bool
	// Dev enables the hot reload endpoints.
	Dev        bool
	PageSize   int
	ToastDelay time.Duration
	// SessionSecret signs session cookies. A random key is used when empty,
	// which invalidates sessions on restart.
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		logger.Debug("no session secret configured, sessions end on restart")
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	s := &Server{
		dataDir:      cfg.DataDir,
		preferences:  cfg.Preferences,
		port:         cfg.Port,
		watch:        cfg.Watch && cfg.DataDir != "",
		dev:          cfg.Dev,
		pageSize:     cfg.PageSize,
		toastDelay:   cfg.ToastDelay,
		logger:       logger,
		sessionStore: sessionStore,
		notifier:     notifier.New(),
		metrics:      metrics.New(),
		dataset:      cfg.Dataset,
	}
	s.registry = registry.New(sessionStore, s.newWorkspace, func(*workspace.Workspace) {
		s.metrics.WorkspaceClosed()
	}, logger)
	return s
}

// newWorkspace builds a session workspace over the current dataset and
// wires it to the notifier and metrics.
func (s *Server) newWorkspace(id string) *workspace.Workspace {
	ws := workspace.New(workspace.Config{
		ID:          id,
		Dataset:     s.Dataset(),
		Preferences: s.preferences,
		PageSize:    s.pageSize,
		ToastDelay:  s.toastDelay,
		OnToastDismiss: func(simexplorer.CompareEvent) {
			s.notifier.Notify(id)
		},
		Logger: s.logger,
	})

	var seen uint64
	ws.Subscribe(
		func(ch navigation.Change) {
			s.metrics.ObserveNavigation(ch)
			s.notifier.Notify(id)
		},
		func(a simexplorer.Action, st simexplorer.State) {
			s.metrics.ObserveExplorer(a, st, seen)
			seen = st.Events
			s.notifier.Notify(id)
		},
	)
	s.metrics.WorkspaceOpened()
	return ws
}

// Handler builds the HTTP handler with all routes.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.registry, s.notifier, s.metrics.Handler(), s.dev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", s.URL())

	eg, egctx := errgroup.WithContext(ctx)

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start file watcher if enabled
	if s.watch {
		eg.Go(func() error {
			return s.watchData(egctx)
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		s.registry.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// URL returns the local address of the server.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Dataset returns the dataset new workspaces are built over.
func (s *Server) Dataset() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Registry returns the session workspaces.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Reload re-reads the data directory and repoints every open workspace.
// On error the previous dataset stays in place.
func (s *Server) Reload() error {
	ds, err := dataset.Load(s.dataDir)
	s.metrics.Reload(err)
	if err != nil {
		return fmt.Errorf("failed to reload dataset: %w", err)
	}

	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()

	s.registry.Each(func(ws *workspace.Workspace) { ws.Repoint(ds) })
	s.notifier.Broadcast()

	st := ds.Stats()
	s.logger.Info("dataset reloaded", "source", ds.Source, "files", st.Files, "warnings", len(ds.Warnings))
	return nil
}

// watchData reloads the dataset when one of its files changes.
func (s *Server) watchData(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	// Editors replace files on save, so watch the directory rather than the files.
	if err := watcher.Add(s.dataDir); err != nil {
		s.logger.Error("failed to watch data directory", "dir", s.dataDir, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}
	files := dataset.Paths(s.dataDir)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !slices.Contains(files, filepath.Clean(event.Name)) {
				continue
			}

			// Debounce
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			name := event.Name
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("data file changed, reloading", "file", name)
				if err := s.Reload(); err != nil {
					s.logger.Error("keeping previous dataset", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
