package site

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// rebuildDebounce coalesces editor save bursts into one rebuild.
const rebuildDebounce = 500 * time.Millisecond

// Server serves a built site directory and rebuilds it when any of the
// watched input files change.
type Server struct {
	Addr      string
	OutputDir string

	// WatchPaths are input files (metadata, overrides, rules) whose
	// changes trigger a rebuild. Missing paths are skipped.
	WatchPaths []string

	// Rebuild regenerates the site into OutputDir.
	Rebuild func(ctx context.Context) error

	Logger *slog.Logger
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	if s.Rebuild != nil && len(s.WatchPaths) > 0 {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer func() { _ = watcher.Close() }()

		for _, p := range s.WatchPaths {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if err := watcher.Add(p); err != nil {
				s.Logger.Warn("watch failed", "path", p, "error", err)
			}
		}
		go s.watchLoop(ctx, watcher)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer, middleware.Compress(5))
	r.Handle("/*", http.FileServer(http.Dir(s.OutputDir)))

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.Logger.Info("serving catalog", "addr", s.Addr, "dir", s.OutputDir)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// watchLoop debounces file events and triggers rebuilds.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			s.Logger.Debug("input changed", "path", event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(rebuildDebounce, func() {
				if err := s.Rebuild(ctx); err != nil {
					s.Logger.Error("rebuild failed", "error", err)
					return
				}
				s.Logger.Info("site rebuilt")
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.Logger.Warn("watcher error", "error", err)
		}
	}
}
