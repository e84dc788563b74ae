package api

import (
	"net/http"
	"sync"

	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/httputil"
	"github.com/Sanchenso/Satellite-Visiblity-Calulator/internal/metrics"
)

// inflightLimiter tracks concurrent requests per client IP and globally.
type inflightLimiter struct {
	mu         sync.Mutex
	inflight   map[string]int
	total      int
	maxPerIP   int
	maxTotal   int
	trustProxy bool
}

func newInflightLimiter(maxPerIP int, trustProxy bool) *inflightLimiter {
	return &inflightLimiter{
		inflight:   make(map[string]int),
		maxPerIP:   maxPerIP,
		maxTotal:   4096, // Default global cap.
		trustProxy: trustProxy,
	}
}

// acquire attempts to register a new request for the given IP.
// Returns false if the IP or global limit has been reached.
func (l *inflightLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.total >= l.maxTotal {
		return false
	}
	if l.inflight[ip] >= l.maxPerIP {
		return false
	}

	l.inflight[ip]++
	l.total++
	return true
}

// release decrements the request count for the given IP.
func (l *inflightLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.inflight[ip]--
	l.total--
	if l.inflight[ip] <= 0 {
		delete(l.inflight, ip)
	}
}

// count returns the number of in-flight requests for the given IP.
func (l *inflightLimiter) count(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inflight[ip]
}

// middleware rejects requests with 429 once the client is at its limit.
func (l *inflightLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := httputil.ClientIP(r, l.trustProxy)
		if !l.acquire(ip) {
			metrics.RecordInflightRejected()
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "too many concurrent requests"})
			return
		}
		defer l.release(ip)
		next.ServeHTTP(w, r)
	})
}
