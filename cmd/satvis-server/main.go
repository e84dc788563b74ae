package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/api"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/auth"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/tracing"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/visibility"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(os.Getenv("SATVIS_LOG_LEVEL")),
	}))

	addr := os.Getenv("SATVIS_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	apiCfg := loadAPIConfig(logger)
	apiCfg.Auth = authCfg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, loadTracingConfig(logger), logger)
	if err != nil {
		logger.Error("tracing init failed", "error", err)
		os.Exit(1)
	}
	defer tracing.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	eval := visibility.NewEvaluator(nil, logger)
	if err := eval.SelfCheck(ctx); err != nil {
		logger.Error("startup self check failed", "error", err)
		os.Exit(1)
	}

	srv := api.NewServer(addr, logger, apiCfg, eval, web.Content)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", addr,
			"auth_enabled", authCfg.Enabled,
			"default_leap_seconds", apiCfg.DefaultLeapSeconds,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server listen error", "error", err)
		tracing.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)
		os.Exit(1)
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return
	}

	logger.Info("server stopped")
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("SATVIS_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("SATVIS_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("SATVIS_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("SATVIS_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

func loadAPIConfig(logger *slog.Logger) api.Config {
	cfg := api.DefaultConfig()

	if v := os.Getenv("SATVIS_TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SATVIS_TRUST_PROXY value, defaulting to false", "value", v)
		} else {
			cfg.TrustProxy = trust
		}
	}

	if v := os.Getenv("SATVIS_DEFAULT_LEAP_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 100 {
			logger.Warn("invalid SATVIS_DEFAULT_LEAP_SECONDS value, using default", "value", v, "default", cfg.DefaultLeapSeconds)
		} else {
			cfg.DefaultLeapSeconds = n
		}
	}

	if v := os.Getenv("SATVIS_MAX_CONCURRENT_PER_IP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			logger.Warn("invalid SATVIS_MAX_CONCURRENT_PER_IP value, using default", "value", v, "default", cfg.MaxConcurrentPerIP)
		} else {
			cfg.MaxConcurrentPerIP = n
		}
	}

	logger.Info("api config",
		"trust_proxy", cfg.TrustProxy,
		"default_leap_seconds", cfg.DefaultLeapSeconds,
		"max_concurrent_per_ip", cfg.MaxConcurrentPerIP,
	)

	return cfg
}

func loadTracingConfig(logger *slog.Logger) tracing.Config {
	cfg := tracing.Config{
		ServiceName: "satvis",
		Exporter:    "stdout",
		SampleRatio: 1.0,
	}

	if v := os.Getenv("SATVIS_TRACING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			logger.Warn("invalid SATVIS_TRACING_ENABLED value, defaulting to false", "value", v)
		} else {
			cfg.Enabled = enabled
		}
	}

	if v := os.Getenv("SATVIS_TRACING_EXPORTER"); v != "" {
		cfg.Exporter = v
	}

	if v := os.Getenv("SATVIS_OTLP_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}

	if v := os.Getenv("SATVIS_TRACING_SAMPLE_RATIO"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r < 0 || r > 1 {
			logger.Warn("invalid SATVIS_TRACING_SAMPLE_RATIO value, using default", "value", v, "default", cfg.SampleRatio)
		} else {
			cfg.SampleRatio = r
		}
	}

	return cfg
}
