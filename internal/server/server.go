package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"netemlab/internal/app"
	"netemlab/internal/netem"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

// Server exposes an App over HTTP.
type Server struct {
	app    *app.App
	logger *slog.Logger
	router *mux.Router
}

// New builds the router for a.
func New(logger *slog.Logger, a *app.App) *Server {
	s := &Server{app: a, logger: logger, router: mux.NewRouter()}

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet, http.MethodPost)
	s.router.HandleFunc("/script/apply", s.handleScript(func(cfg netem.Config) netem.Script {
		return netem.ApplyScript(cfg, a.Defaults())
	})).Methods(http.MethodGet)
	s.router.HandleFunc("/script/reset", s.handleScript(netem.ResetScript)).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	s.router.Use(s.logRequests)

	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(listener)
	}()

	if s.logger != nil {
		s.logger.Info("http server listening", slog.String("addr", listener.Addr().String()))
	}

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("http server stopped")
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	req := app.Request{}
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form: "+err.Error(), http.StatusBadRequest)
			return
		}
		req = app.RequestFromForm(r.PostForm)
	}

	resp := s.app.Handle(r.Context(), req)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, newPageData(resp)); err != nil && s.logger != nil {
		s.logger.Error("render page failed", slog.String("error", err.Error()))
	}
}

// handleScript renders a script from query parameters, for copying into a terminal.
func (s *Server) handleScript(render func(netem.Config) netem.Script) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := netem.FromForm(r.URL.Query(), s.app.Defaults())
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, render(cfg).String())
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if s.logger != nil {
			s.logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("action", r.PostForm.Get(app.FieldAction)),
				slog.Int("status", rec.status),
				slog.Duration("elapsed", time.Since(started)))
		}
	})
}
