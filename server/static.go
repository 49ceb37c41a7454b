package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/topi314/tint"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/topi314/statusdemo/internal/ezhttp"
)

const (
	FileClientHTML = "client.html"
	FileStyleCSS   = "style.css"
)

// file serves a single client file with the given content type.
// Read failures are always reported as JSON, whatever the client accepts.
func (s *Server) file(name string, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), "serveFile", trace.WithAttributes(
			attribute.String("file", name),
		))
		defer span.End()

		data, err := s.readFile(name)
		if err != nil {
			span.SetStatus(codes.Error, "failed to read file")
			span.RecordError(err)
			slog.ErrorContext(ctx, "failed to read client file", slog.String("file", name), tint.Err(err))
			s.json(w, r, PayloadFileError, http.StatusInternalServerError)
			return
		}

		w.Header().Set(ezhttp.HeaderContentType, contentType)
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		if _, err = w.Write(data); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
			slog.ErrorContext(ctx, "failed to write client file", slog.String("file", name), tint.Err(err))
		}
	}
}

func (s *Server) readFile(name string) ([]byte, error) {
	file, err := s.assets.Open("/" + name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()
	return io.ReadAll(file)
}
