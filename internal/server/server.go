package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-mentor/internal/career"
	"github.com/jonathan/career-mentor/internal/config"
	"github.com/jonathan/career-mentor/internal/server/middleware"
	"github.com/jonathan/career-mentor/internal/server/ratelimit"
	"github.com/jonathan/career-mentor/internal/types"
)

const shutdownTimeout = 30 * time.Second

// Store is the persistence the API needs: accounts, quiz history, career paths
// and the admin signup listing.
type Store interface {
	UserStore
	career.Store
	ListSignups(ctx context.Context) ([]types.Signup, error)
	Ping(ctx context.Context) error
}

// Config holds server configuration
type Config struct {
	Port      int
	Store     Store
	Generator career.Generator
	// GenerationBudget bounds one whole generation, fallback included.
	GenerationBudget time.Duration
	JWT              *config.JWTConfig
	Password         *config.PasswordConfig
	RateLimit        *ratelimit.Config
	AllowedOrigins   []string
	// IsAdmin decides access to admin routes by authenticated email.
	IsAdmin func(email string) bool
	Logger  *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	careers     *career.Service
	jwtService  *JWTService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server config: store is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("server config: generator is required")
	}
	if cfg.JWT == nil || cfg.Password == nil {
		return nil, fmt.Errorf("server config: JWT and password configuration are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	isAdmin := cfg.IsAdmin
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}

	careers := career.NewService(cfg.Store, cfg.Generator, logger.Named("career"))
	careers.SetGenerationBudget(cfg.GenerationBudget)

	jwtService := NewJWTService(cfg.JWT)
	userService := NewUserService(cfg.Store, cfg.Password, logger)

	s := &Server{
		store:       cfg.Store,
		careers:     careers,
		jwtService:  jwtService,
		authHandler: NewAuthHandler(userService, jwtService, logger),
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      logger,
	}

	auth := middleware.AuthMiddleware(jwtService.AsTokenValidator())
	admin := func(h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireAdmin(isAdmin)(h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", s.authHandler.Login)
	mux.Handle("PUT /api/auth/password", authed(s.authHandler.UpdatePassword))

	mux.Handle("POST /api/quiz/submit", authed(s.handleSubmitQuiz))
	mux.Handle("GET /api/quiz/history", authed(s.handleQuizHistory))

	mux.Handle("GET /api/career-path", authed(s.handleGetCareerPath))
	mux.Handle("POST /api/career-path", authed(s.handleCreateCareerPath))
	mux.Handle("POST /api/career-path/regenerate", authed(s.handleRegenerateCareerPath))

	mux.Handle("GET /api/admin/signups", admin(s.handleListSignups))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     middleware.Logging(logger)(s.withRateLimit(corsHandler.Handler(mux))),
		ReadTimeout: 30 * time.Second,
		// Generation may run for the whole budget plus the fallback attempt.
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled or the listener fails, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// withRateLimit adds rate limiting middleware
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

// handleHealth reports whether the store is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorBody is the failure shape for every endpoint. AIResult is only set on
// quiz and career-path routes and carries user-facing guidance.
type errorBody struct {
	Error    string  `json:"error"`
	AIResult *string `json:"aiResult,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// extractClientID uses the IP from RemoteAddr. Forwarded headers are not trusted.
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
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
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
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Info("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("client", extractClientID(r)),
		zap.Int("limit", info.Limit))

	writeJSON(w, http.StatusTooManyRequests, response)
}
