// Package server serves popcon charts over HTTP.
//
// Routes:
//
//	GET /             HTML page showing the raster chart and the remote chart
//	GET /graph.png    raster chart, ?size=WxH&percent=true|false
//	GET /graph/url    remote chart URL as text
//	GET /graph.json   chart model as JSON
//	GET /healthz      liveness probe
//
// A malformed size falls back to the format's default size. Identical
// concurrent requests share a single pipeline run.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/popcon/pkg/buildinfo"
	perrors "github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const shutdownTimeout = 10 * time.Second

// Server renders charts on request.
type Server struct {
	runner *pipeline.Runner
	base   pipeline.Options
	logger *log.Logger
	group  singleflight.Group
}

// New creates a server. base holds the options every request starts from;
// requests may only change the size and percentage mode.
func New(runner *pipeline.Runner, base pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, base: base, logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)

	r.Get("/", s.handlePage)
	r.Get("/graph.png", s.handleChart(pipeline.FormatPNG))
	r.Get("/graph/url", s.handleChart(pipeline.FormatURL))
	r.Get("/graph.json", s.handleChart(pipeline.FormatJSON))
	r.Get("/healthz", handleHealth)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "data", s.base.DataDir)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleChart(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.render(r, format)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", result.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(result.Artifact)))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(result.Artifact)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// render runs the pipeline for a request. Requests with identical options
// are coalesced.
func (s *Server) render(r *http.Request, format string) (*pipeline.Result, error) {
	opts := s.requestOptions(r, format)
	key := fmt.Sprintf("%s|%dx%d|%t", format, opts.Width, opts.Height, opts.Percent)

	v, err, shared := s.group.Do(key, func() (any, error) {
		// Detached from the request so that one canceled client does not
		// fail the requests sharing this run.
		return s.runner.Execute(context.WithoutCancel(r.Context()), opts)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("coalesced request", "key", key, "id", RequestID(r.Context()))
	}
	return v.(*pipeline.Result), nil
}

// requestOptions derives the pipeline options of a request from the base
// options. Malformed parameters are ignored.
func (s *Server) requestOptions(r *http.Request, format string) pipeline.Options {
	opts := s.base
	opts.Format = format
	opts.Logger = nil
	if format == pipeline.FormatURL {
		// The remote service has its own default size.
		opts.Width, opts.Height = 0, 0
	}

	q := r.URL.Query()
	if size := q.Get("size"); size != "" {
		if w, h, err := perrors.ParseSize(size); err == nil {
			opts.Width, opts.Height = w, h
		} else {
			s.logger.Debug("ignoring size", "size", size, "err", err)
		}
	}
	if p := q.Get("percent"); p != "" {
		if v, err := strconv.ParseBool(p); err == nil {
			opts.Percent = v
		}
	}
	return opts
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := perrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("chart failed", "path", r.URL.Path, "id", RequestID(r.Context()), "err", err)
	}
	http.Error(w, perrors.UserMessage(err), status)
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "popcon/"+buildinfo.Short())
		next.ServeHTTP(w, r)
	})
}
