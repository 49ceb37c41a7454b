package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/topi314/tint"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.18.0"
)

// ShutdownFunc flushes and stops what SetupOtel started.
type ShutdownFunc func(ctx context.Context) error

// SetupOtel installs the global tracer and meter providers. Disabled signals keep the otel noop defaults.
// The returned ShutdownFunc is always non nil and flushes pending spans and stops the metrics listener.
func SetupOtel(version string, cfg OtelConfig) (ShutdownFunc, error) {
	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	res := resources(version, cfg)
	if cfg.Trace.Enabled {
		traceShutdown, err := setupTrace(res, cfg.Trace)
		if err != nil {
			return shutdown, fmt.Errorf("failed to setup tracing: %w", err)
		}
		shutdowns = append(shutdowns, traceShutdown)
	}

	if cfg.Metrics.Enabled {
		meterShutdown, err := setupMeter(res, cfg.Metrics)
		if err != nil {
			return shutdown, fmt.Errorf("failed to setup metrics: %w", err)
		}
		shutdowns = append(shutdowns, meterShutdown)
	}

	return shutdown, nil
}

func resources(version string, cfg OtelConfig) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(Name),
		semconv.ServiceNamespace(Namespace),
		semconv.ServiceInstanceID(cfg.InstanceID),
		semconv.ServiceVersion(version),
	)
}

func setupTrace(res *resource.Resource, cfg TraceConfig) (ShutdownFunc, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}

// setupMeter exposes the responses counter and the runtime metrics in the prometheus format on its own listener.
func setupMeter(res *resource.Resource, cfg MetricsConfig) (ShutdownFunc, error) {
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr, err)
	}

	registry := promclient.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exp, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		_ = ln.Close()
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exp),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	httpServer := &http.Server{Handler: mux}
	go func() {
		if serveErr := httpServer.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("failed to serve metrics", tint.Err(serveErr))
		}
	}()
	slog.Info("Metrics server running", slog.String("addr", ln.Addr().String()))

	return func(ctx context.Context) error {
		return errors.Join(httpServer.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
