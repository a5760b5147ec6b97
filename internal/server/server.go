package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/file-tagger/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	logger         *zap.Logger
	rateLimiter    *ratelimit.Limiter
	batches        *batchStore
	maxUploadBytes int64
	workers        int
}

// Config holds server configuration
type Config struct {
	Port           int           `validate:"gte=0,lte=65535"`
	MaxUploadBytes int64         `validate:"gt=0"`
	DownloadTTL    time.Duration `validate:"gt=0"`
	RateLimitRPS   float64       `validate:"gte=0"` // zero disables rate limiting
	RateLimitBurst int           `validate:"gte=0"`
	Whitelist      string        // comma-separated client IPs exempt from rate limiting
	Workers        int           `validate:"gte=0"` // default render concurrency per request
	AllowedOrigins []string
	Logger         *zap.Logger
}

var validate = validator.New()

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		logger:         logger,
		rateLimiter:    ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Whitelist)),
		batches:        newBatchStore(cfg.DownloadTTL),
		maxUploadBytes: cfg.MaxUploadBytes,
		workers:        cfg.Workers,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /process", s.handleProcess)
	mux.HandleFunc("POST /tags", s.handleTags)
	mux.HandleFunc("GET /batches/{id}/archive.zip", s.handleArchive)
	mux.HandleFunc("GET /batches/{id}/files/{name...}", s.handleFile)
	mux.HandleFunc("GET /health", s.handleHealth)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	})

	s.handler = s.withRateLimit(s.withLogging(corsHandler(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		s.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-stop:
	}

	s.logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()

	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources. It does not stop a running listener.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withRateLimit rejects clients that exceed their endpoint's rate
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromErr writes an error response with the status HTTPStatus assigns to err
func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}

	if info.RetryAfter > 0 {
		seconds := max(int(info.RetryAfter.Round(time.Second)/time.Second), 1)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
