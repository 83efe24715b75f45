package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Rapou7/YonkiStats/internal/cache"
	"github.com/Rapou7/YonkiStats/internal/core"
	applog "github.com/Rapou7/YonkiStats/internal/log"
	"github.com/Rapou7/YonkiStats/internal/prefs"
	"github.com/Rapou7/YonkiStats/internal/storage"
)

// Server exposes the entry repository, statistics, and preferences as a
// JSON API.
type Server struct {
	http.Server
	repo        *storage.Repository
	prefs       *prefs.Preferences
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Aggregations are cheap but recomputed on every dashboard
	// paint; the caches absorb that. All three flush on any write.
	heatmapCache *cache.LRU[heatmapResponse]
	seriesCache  *cache.LRU[[]seriesPointResponse]
	summaryCache *cache.LRU[summaryResponse]

	// today is injectable for tests; defaults to the current UTC day.
	today func() core.Day

	shutdownOnce sync.Once
}

// Options tunes server construction. Zero values fall back to defaults.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
	Today     func() core.Day
	Logger    *applog.Logger
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, repo *storage.Repository, p *prefs.Preferences, opts Options) *Server {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 64
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.Today == nil {
		opts.Today = func() core.Day { return core.DayOf(time.Now().UTC()) }
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(opts.Logger)(mux),
		},
		repo:         repo,
		prefs:        p,
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
		heatmapCache: cache.NewLRU[heatmapResponse](opts.CacheSize, opts.CacheTTL),
		seriesCache:  cache.NewLRU[[]seriesPointResponse](opts.CacheSize, opts.CacheTTL),
		summaryCache: cache.NewLRU[summaryResponse](opts.CacheSize, opts.CacheTTL),
		today:        opts.Today,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/entries", s.guard(s.handleListEntries))
	mux.HandleFunc("POST /api/entries", s.guard(s.handleCreateEntry))
	mux.HandleFunc("PUT /api/entries/{id}", s.guard(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.guard(s.handleDeleteEntry))
	mux.HandleFunc("DELETE /api/entries", s.guard(s.handleDeleteAllEntries))

	mux.HandleFunc("GET /api/favorites", s.guard(s.handleListFavorites))
	mux.HandleFunc("POST /api/favorites", s.guard(s.handleCreateFavorite))
	mux.HandleFunc("DELETE /api/favorites/{id}", s.guard(s.handleDeleteFavorite))
	mux.HandleFunc("POST /api/favorites/{id}/entries", s.guard(s.handleQuickAdd))

	mux.HandleFunc("GET /api/stats/heatmap", s.guard(s.handleHeatmap))
	mux.HandleFunc("GET /api/stats/series", s.guard(s.handleSeries))
	mux.HandleFunc("GET /api/stats/totals", s.guard(s.handleTotals))
	mux.HandleFunc("GET /api/stats/summary", s.guard(s.handleSummary))

	mux.HandleFunc("GET /api/export", s.guard(s.handleExport))
	mux.HandleFunc("POST /api/import", s.guard(s.handleImport))

	mux.HandleFunc("GET /api/settings", s.guard(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.guard(s.handleUpdateSettings))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// flushStatsCaches drops all cached aggregations. Called after every
// write so reads never serve stale statistics.
func (s *Server) flushStatsCaches() {
	s.heatmapCache.Flush()
	s.seriesCache.Flush()
	s.summaryCache.Flush()
}

// guard adds security headers, rate limiting, and request logging.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		logger := applog.FromContext(r.Context())

		if detectSuspiciousRequest(r, s.metrics) {
			logger.WarnContext(r.Context(), "Suspicious request",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}

		requestID := generateRequestID()
		logger = logger.With(applog.FieldRequestID, requestID)

		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, logger)
		r = r.WithContext(ctx)

		sl := applog.NewStructuredLogger(logger)
		sl.LogHTTPStart(ctx, r, clientIP)

		if mutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeErrorBody(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		sl.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady probes the underlying store with a cheap read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.List(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness probe failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
