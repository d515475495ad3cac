package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jonathan/interview-coach/internal/observability"
	"github.com/jonathan/interview-coach/internal/practice"
	"github.com/jonathan/interview-coach/internal/review"
	"github.com/jonathan/interview-coach/internal/server/ratelimit"
	"github.com/jonathan/interview-coach/internal/types"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// ChatEngine advances the conversation by one turn.
type ChatEngine interface {
	Transition(ctx context.Context, req types.ChatRequest) types.ChatResponse
}

// Reviewer runs admin repository reviews.
type Reviewer interface {
	Analyze(ctx context.Context, req review.AnalyzeRequest) (*review.Report, error)
	Critique(ctx context.Context, req review.CritiqueRequest) (*review.Report, error)
	CanCrossValidate() bool
}

// Practice generates single questions and evaluates answers.
type Practice interface {
	Question(ctx context.Context, req types.PracticeQuestionRequest) (*practice.Question, error)
	Evaluate(ctx context.Context, req types.EvaluationRequest) (*practice.Evaluation, error)
}

// Config holds server configuration
type Config struct {
	Addr           string
	AllowedOrigins []string
	RateLimit      *ratelimit.Config
	// WriteTimeout bounds a whole request, including a chat transition that
	// outlives its client.
	WriteTimeout time.Duration
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	engine      ChatEngine
	reviewer    Reviewer
	practice    Practice
	rateLimiter *ratelimit.Limiter
	now         func() time.Time
}

// New creates a new server instance. reviewer and practice may be nil, in
// which case their endpoints answer 503.
func New(cfg Config, engine ChatEngine, reviewer Reviewer, practice Practice) *Server {
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 300 * time.Second
	}

	s := &Server{
		engine:      engine,
		reviewer:    reviewer,
		practice:    practice,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		now:         time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(withRequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(withSecurityHeaders)
	r.Use(withCORS(cfg.AllowedOrigins))
	r.Use(s.withRateLimit)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat", s.handleChatStatus)

		r.Post("/interview", s.handleQuestion)
		r.Get("/interview", s.handleQuestionStatus)
		r.Post("/interview/evaluate", s.handleEvaluate)
		r.Get("/interview/evaluate", s.handleEvaluateStatus)

		r.Post("/admin/github-analyze", s.handleGitHubAnalyze)
		r.Get("/admin/github-analyze", s.handleGitHubAnalyzeStatus)
	})

	return r
}

// Start begins listening for requests and shuts down gracefully when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	logger := observability.Logger()
	errCh := make(chan error, 1)

	go func() {
		logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	logger.Info("server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// apiError is the error object of a failed admin or practice response.
type apiError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.LoggerFromContext(r.Context()).Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes {success:false, error:{code, message}} with the status
// that matches err.
func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	body := apiError{Code: ErrorCode(err), Message: publicMessage(err)}

	var valErr *ErrValidation
	if errors.As(classify(err), &valErr) {
		body.Details = valErr.Details
	}

	logger := observability.LoggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "code", body.Code, "error", err)
	} else {
		logger.Info("request rejected", "path", r.URL.Path, "code", body.Code, "error", err)
	}

	jsonResponse(w, r, status, map[string]any{"success": false, "error": body})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Message: "Invalid JSON in request body", Details: []string{err.Error()}}
	}
	return nil
}

func unavailable(w http.ResponseWriter, r *http.Request, feature string) {
	jsonResponse(w, r, http.StatusServiceUnavailable, map[string]any{
		"success": false,
		"error":   apiError{Code: CodeInternal, Message: feature + " is not configured"},
	})
}
