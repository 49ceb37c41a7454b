package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/topi314/statusdemo/internal/httperr"
	"github.com/topi314/statusdemo/internal/httprate"
)

// IgnoreMethod makes the router look up every request as GET, so methods chi does not know
// still reach the handler registered for the path. r.Method itself is left untouched.
func IgnoreMethod(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			rctx.RouteMethod = http.MethodGet
		}
		next.ServeHTTP(w, r)
	})
}

// Recoverer turns a panicking handler into an internal server error payload.
func (s *Server) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(r.Context(), "recovered from panic",
				slog.String("panic", fmt.Sprintf("%+v", rvr)),
				slog.String("req_id", middleware.GetReqID(r.Context())),
				slog.String("stack", string(debug.Stack())),
			)
			s.error(w, r, httperr.InternalServerError(fmt.Errorf("panic: %v", rvr)))
		}()

		next.ServeHTTP(w, r)
	})
}

// rateLimitKey buckets requests per client and route. Unknown paths share one bucket
// so random paths can not be used to get around the limit.
func rateLimitKey(r *http.Request) string {
	route := "*"
	if _, ok := knownPaths[r.URL.Path]; ok {
		route = r.URL.Path
	}
	return httprate.KeyByIP(r) + " " + route
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	s.error(w, r, httperr.TooManyRequests(ErrRateLimit))
}
