package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/slog-chi"
	"github.com/topi314/tint"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/topi314/statusdemo/internal/ezhttp"
	"github.com/topi314/statusdemo/internal/httperr"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Negotiate picks XML when the accept header mentions xml anywhere, JSON otherwise.
func Negotiate(accept string) Format {
	if strings.Contains(accept, "xml") {
		return FormatXML
	}
	return FormatJSON
}

func acceptHeader(r *http.Request) string {
	return strings.Join(r.Header.Values(ezhttp.HeaderAccept), ", ")
}

// MarshalXML renders the payload as <response><message>...</message><id>...</id></response>.
// The values are written as is, they are never escaped.
func MarshalXML(p Payload) []byte {
	buff := new(bytes.Buffer)
	buff.WriteString("<response>")
	buff.WriteString("<message>" + p.Message + "</message>")
	if p.ID != "" {
		buff.WriteString("<id>" + p.ID + "</id>")
	}
	buff.WriteString("</response>")
	return buff.Bytes()
}

var statusPayloads = map[int]Payload{
	http.StatusBadRequest:          PayloadBadRequest,
	http.StatusUnauthorized:        PayloadUnauthorized,
	http.StatusForbidden:           PayloadForbidden,
	http.StatusNotFound:            PayloadNotFound,
	http.StatusTooManyRequests:     PayloadTooManyRequests,
	http.StatusInternalServerError: PayloadInternal,
	http.StatusNotImplemented:      PayloadNotImplemented,
}

func errorPayload(err error) (int, Payload) {
	status, id := httperr.Status(err)
	if payload, ok := statusPayloads[status]; ok && payload.ID == id {
		return status, payload
	}
	return status, Payload{Message: http.StatusText(status), ID: id}
}

// respond writes the payload in the format the client asked for.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, payload Payload) {
	format := Negotiate(acceptHeader(r))
	s.responses.Add(r.Context(), 1, metric.WithAttributes(
		attribute.Int("http.status_code", status),
		attribute.String("format", string(format)),
	))

	if format == FormatXML {
		s.xml(w, r, payload, status)
		return
	}
	s.json(w, r, payload, status)
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request, payload Payload) {
	s.respond(w, r, http.StatusOK, payload)
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, http.ErrHandlerTimeout) {
		return
	}

	status, payload := errorPayload(err)
	slogchi.AddCustomAttributes(r, slog.String("err", err.Error()))
	s.respond(w, r, status, payload)
}

func (s *Server) json(w http.ResponseWriter, r *http.Request, v any, status int) {
	w.Header().Set(ezhttp.HeaderContentType, ezhttp.ContentTypeJSON)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		slog.ErrorContext(r.Context(), "failed to encode json", tint.Err(err))
	}
}

func (s *Server) xml(w http.ResponseWriter, r *http.Request, payload Payload, status int) {
	w.Header().Set(ezhttp.HeaderContentType, ezhttp.ContentTypeXML)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}

	if _, err := w.Write(MarshalXML(payload)); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		slog.ErrorContext(r.Context(), "failed to write xml", tint.Err(err))
	}
}
