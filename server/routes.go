package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"github.com/samber/slog-chi"

	"github.com/topi314/statusdemo/internal/ezhttp"
	"github.com/topi314/statusdemo/internal/httperr"
)

var (
	ErrMissingValid    = errors.New("missing valid query parameter set to true")
	ErrMissingLoggedIn = errors.New("missing loggedIn query parameter set to yes")
	ErrForbidden       = errors.New("access to this content is forbidden")
	ErrInternal        = errors.New("something went wrong")
	ErrNotImplemented  = errors.New("not implemented")
	ErrNotFound        = errors.New("page not found")
	ErrRateLimit       = errors.New("rate limit exceeded")
)

// Endpoint documents one outcome of an api route.
type Endpoint struct {
	Path    string
	Query   string
	Status  int
	Payload Payload
}

// Endpoints lists every outcome of the api routes, unknown paths answer with PayloadNotFound.
var Endpoints = []Endpoint{
	{Path: "/success", Status: http.StatusOK, Payload: PayloadSuccess},
	{Path: "/badRequest", Query: "valid=true", Status: http.StatusOK, Payload: PayloadValidRequest},
	{Path: "/badRequest", Status: http.StatusBadRequest, Payload: PayloadBadRequest},
	{Path: "/unauthorized", Query: "loggedIn=yes", Status: http.StatusOK, Payload: PayloadLoggedIn},
	{Path: "/unauthorized", Status: http.StatusUnauthorized, Payload: PayloadUnauthorized},
	{Path: "/forbidden", Status: http.StatusForbidden, Payload: PayloadForbidden},
	{Path: "/internal", Status: http.StatusInternalServerError, Payload: PayloadInternal},
	{Path: "/notImplemented", Status: http.StatusNotImplemented, Payload: PayloadNotImplemented},
}

var knownPaths = func() map[string]struct{} {
	paths := map[string]struct{}{
		"/":                 {},
		"/" + FileClientHTML: {},
		"/" + FileStyleCSS:   {},
	}
	for _, endpoint := range Endpoints {
		paths[endpoint.Path] = struct{}{}
	}
	return paths
}()

// Routes builds the router. Routes match on the path only, every http method is handled the same way.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(IgnoreMethod)
	if s.cfg.Otel.Trace.Enabled {
		r.Use(otelchi.Middleware(Name, otelchi.WithChiRoutes(r)))
	}
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(slogchi.NewWithConfig(slog.Default(), slogchi.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelDebug,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
		WithSpanID:       s.cfg.Otel.Trace.Enabled,
		WithTraceID:      s.cfg.Otel.Trace.Enabled,
	}))
	r.Use(s.Recoverer)
	if s.rateLimitHandler != nil {
		r.Use(s.rateLimitHandler)
	}

	if s.cfg.Debug {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Handle("/", s.file(FileClientHTML, ezhttp.ContentTypeHTML))
	r.Handle("/client.html", s.file(FileClientHTML, ezhttp.ContentTypeHTML))
	r.Handle("/style.css", s.file(FileStyleCSS, ezhttp.ContentTypeCSS))

	r.HandleFunc("/success", s.Success)
	r.HandleFunc("/badRequest", s.BadRequest)
	r.HandleFunc("/unauthorized", s.Unauthorized)
	r.HandleFunc("/forbidden", s.Forbidden)
	r.HandleFunc("/internal", s.Internal)
	r.HandleFunc("/notImplemented", s.NotImplemented)

	r.NotFound(s.NotFound)
	r.MethodNotAllowed(s.NotFound)

	if s.cfg.HTTPTimeout > 0 {
		return http.TimeoutHandler(r, s.cfg.HTTPTimeout, "Request timed out")
	}
	return r
}

func (s *Server) Success(w http.ResponseWriter, r *http.Request) {
	s.ok(w, r, PayloadSuccess)
}

func (s *Server) BadRequest(w http.ResponseWriter, r *http.Request) {
	if !queryIs(r, "valid", "true") {
		s.error(w, r, httperr.BadRequest(ErrMissingValid))
		return
	}
	s.ok(w, r, PayloadValidRequest)
}

func (s *Server) Unauthorized(w http.ResponseWriter, r *http.Request) {
	if !queryIs(r, "loggedIn", "yes") {
		s.error(w, r, httperr.Unauthorized(ErrMissingLoggedIn))
		return
	}
	s.ok(w, r, PayloadLoggedIn)
}

func (s *Server) Forbidden(w http.ResponseWriter, r *http.Request) {
	s.error(w, r, httperr.Forbidden(ErrForbidden))
}

func (s *Server) Internal(w http.ResponseWriter, r *http.Request) {
	s.error(w, r, httperr.InternalServerError(ErrInternal))
}

func (s *Server) NotImplemented(w http.ResponseWriter, r *http.Request) {
	s.error(w, r, httperr.NotImplemented(ErrNotImplemented))
}

func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.error(w, r, httperr.NotFound(ErrNotFound))
}

// queryIs reports whether the query parameter key is present exactly once with the value want.
// A repeated parameter never matches.
func queryIs(r *http.Request, key string, want string) bool {
	values := r.URL.Query()[key]
	return len(values) == 1 && values[0] == want
}
