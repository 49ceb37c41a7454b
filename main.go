package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/topi314/tint"

	"github.com/topi314/statusdemo/internal/ver"
	"github.com/topi314/statusdemo/server"
)

func main() {
	cfgPath := flag.String("config", "", "path to statusdemo.toml")
	flag.Parse()

	cfg, err := server.LoadConfig(*cfgPath)
	if err != nil {
		slog.Error("Error while loading config", tint.Err(err))
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	version := ver.Load()
	slog.Info("Starting statusdemo...", slog.String("version", version.String()), slog.String("go_version", version.GoVersion))
	slog.Debug("Config", slog.String("config", cfg.String()))

	shutdownOtel, err := server.SetupOtel(version.Version, cfg.Otel)
	if err != nil {
		slog.Error("Error while setting up otel", tint.Err(err))
		os.Exit(1)
	}

	s, err := server.NewServer(version, cfg, http.Dir(cfg.ClientDir))
	if err != nil {
		slog.Error("Error while creating server", tint.Err(err))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	si := make(chan os.Signal, 1)
	signal.Notify(si, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-si:
		s.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err = shutdownOtel(ctx); err != nil {
			slog.Error("Error while shutting down otel", tint.Err(err))
		}
	case err = <-errCh:
		if err != nil {
			slog.Error("Error while running server", tint.Err(err))
			os.Exit(1)
		}
	}
}

func setupLogger(cfg server.LogConfig) {
	var handler slog.Handler
	switch cfg.Format {
	case server.LogFormatJSON:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: cfg.AddSource,
			Level:     cfg.Level,
		})
	default:
		handler = tint.NewHandler(colorable.NewColorable(os.Stdout), &tint.Options{
			AddSource:  cfg.AddSource,
			Level:      cfg.Level,
			NoColor:    cfg.NoColor,
			TimeFormat: time.StampMilli,
		})
	}
	slog.SetDefault(slog.New(handler))
}
