package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/auth"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/health"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/httputil"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/metrics"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/visibility"
)

// Config holds the HTTP layer's settings.
type Config struct {
	Auth       auth.Config
	TrustProxy bool // read client IPs from X-Forwarded-For / X-Real-IP

	// DefaultLeapSeconds is used when a request omits leap_seconds.
	DefaultLeapSeconds int

	// MaxConcurrentPerIP caps in-flight visibility requests per client.
	// Zero disables the limit.
	MaxConcurrentPerIP int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DefaultLeapSeconds: 37,
		MaxConcurrentPerIP: 32,
	}
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server. A non-nil static FS is served
// at the root as the browser form.
func NewServer(addr string, logger *slog.Logger, cfg Config, eval *visibility.Evaluator, static fs.FS) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           newHandler(logger, cfg, eval, static),
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// newHandler builds the routed handler with its middleware chain:
// tracing -> metrics -> logging -> auth -> mux.
func newHandler(logger *slog.Logger, cfg Config, eval *visibility.Evaluator, static fs.FS) http.Handler {
	mux := http.NewServeMux()

	vis := visibilityHandler(logger, cfg, eval)
	if cfg.MaxConcurrentPerIP > 0 {
		vis = newInflightLimiter(cfg.MaxConcurrentPerIP, cfg.TrustProxy).middleware(vis)
	}

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(eval.SelfCheck))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /api/v1/visibility", vis)
	mux.Handle("POST /api/v1/visibility", vis)
	if static != nil {
		mux.Handle("GET /", http.FileServerFS(static))
	}

	var handler http.Handler = mux
	handler = auth.Middleware(cfg.Auth)(handler)
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "satvis",
		otelhttp.WithFilter(func(r *http.Request) bool { return !probePath(r.URL.Path) }),
	)
	return handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
