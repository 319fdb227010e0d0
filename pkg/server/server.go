// Package server serves the artifacts of a generation run over HTTP.
//
// Generated metadata records point at their images; serving the output
// directory makes a collection browsable before it is published anywhere.
//
// # Routes
//
//	GET /metadata          all-objects.json
//	GET /metadata/{id}     metadata/<id>.json (a trailing ".json" is accepted)
//	GET /images/{id}       images/<id>.png (a trailing ".png" is accepted)
//	GET /rarity            trait distribution of the collection
//	GET /report            report.json of the last run
//
// Every response goes through the observability HTTP hooks.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/observability"
	"github.com/matzehuels/traitforge/pkg/output"
	"github.com/matzehuels/traitforge/pkg/rarity"
)

// shutdownTimeout bounds how long in-flight requests may take on shutdown.
const shutdownTimeout = 5 * time.Second

// Server serves one output directory.
type Server struct {
	dir    string
	logger *log.Logger
	router chi.Router
}

// New creates a server for the run written to dir.
func New(dir string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{dir: dir, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/metadata", s.handleAll)
	r.Get("/metadata/{id}", s.handleMetadata)
	r.Get("/images/{id}", s.handleImage)
	r.Get("/rarity", s.handleRarity)
	r.Get("/report", s.handleReport)
	s.router = r
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("serving", "dir", s.dir, "addr", addr)

	select {
	case err := <-errCh:
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, output.AllObjectsPath(s.dir), "application/json")
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := tokenID(chi.URLParam(r, "id"), ".json")
	if err != nil {
		writeError(w, err)
		return
	}
	s.serveFile(w, r, output.MetadataPath(s.dir, id), "application/json")
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id, err := tokenID(chi.URLParam(r, "id"), ".png")
	if err != nil {
		writeError(w, err)
		return
	}
	path := filepath.Join(s.dir, output.ImagesDir, strconv.Itoa(id)+".png")
	s.serveFile(w, r, path, "image/png")
}

func (s *Server) handleRarity(w http.ResponseWriter, r *http.Request) {
	mds, err := output.LoadAll(s.dir)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rarity.Compute(mds))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, filepath.Join(s.dir, output.ReportFile), "application/json")
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, errors.New(errors.ErrCodeFileNotFound, "not found"))
			return
		}
		s.logger.Error("open artifact", "path", path, "err", err)
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "open"))
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		writeError(w, errors.New(errors.ErrCodeFileNotFound, "not found"))
		return
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

// tokenID parses a token id, tolerating the given file suffix. Runs may
// start at a negative id, so any integer is accepted.
func tokenID(raw, suffix string) (int, error) {
	raw = strings.TrimSuffix(raw, suffix)
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid token id %q", raw)
	}
	return id, nil
}

// =============================================================================
// Middleware and Responses
// =============================================================================

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
