package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/topi314/tint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/topi314/statusdemo/internal/httprate"
	"github.com/topi314/statusdemo/internal/ver"
)

var (
	Name      = "statusdemo"
	Namespace = "github.com/topi314/statusdemo"
)

func NewServer(version ver.Version, cfg Config, assets http.FileSystem) (*Server, error) {
	tracer := tracenoop.NewTracerProvider().Tracer(Name)
	if cfg.Otel.Trace.Enabled {
		tracer = otel.Tracer(Name)
	}

	responses, err := otel.Meter(Name).Int64Counter("statusdemo.responses",
		metric.WithDescription("Number of api responses by status and format"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create responses counter: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		version:   version,
		cfg:       cfg,
		tracer:    tracer,
		responses: responses,
		assets:    assets,
		cancel:    cancel,
	}

	if cfg.RateLimit.Enabled {
		s.rateLimitHandler = httprate.NewRateLimiter(
			ctx,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Duration,
			rateLimitKey,
			s.onRateLimit,
		).Handler
	}

	s.server = &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: s.Routes(),
	}

	return s, nil
}

type Server struct {
	version          ver.Version
	cfg              Config
	server           *http.Server
	tracer           trace.Tracer
	responses        metric.Int64Counter
	assets           http.FileSystem
	rateLimitHandler func(http.Handler) http.Handler
	cancel           context.CancelFunc
}

// Start binds the listener and serves requests until the server is closed.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	slog.Info(fmt.Sprintf("Server running on port %d", s.cfg.Port), slog.String("addr", ln.Addr().String()))

	if err = s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

func (s *Server) Close() {
	s.cancel()

	if err := s.server.Close(); err != nil {
		slog.Error("Error while closing server", tint.Err(err))
	}
}
