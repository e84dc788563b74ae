package health

import (
	"context"
	"net/http"
	"time"
)

// readyTimeout bounds a single readiness check.
const readyTimeout = 2 * time.Second

// Healthz returns 200 "ok\n" unconditionally.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// Readyz returns a handler that runs check on every request and answers
// 200 "ready\n" when it passes, 503 with the error text otherwise.
// A nil check is always ready.
func Readyz(check func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")

		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("not ready: " + err.Error() + "\n"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready\n"))
	}
}
