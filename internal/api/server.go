package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/brightboard/assessment/internal/attempt"
	"github.com/brightboard/assessment/internal/explain"
	"github.com/brightboard/assessment/internal/logger"
	"github.com/brightboard/assessment/internal/quizgen"
	"github.com/brightboard/assessment/internal/remarks"
)

// Options tunes the HTTP surface.
type Options struct {
	// AllowedOrigins is the CORS allowlist. Empty disables CORS handling.
	AllowedOrigins []string

	// RequestTimeout bounds every request. Quiz generation is the slowest
	// endpoint, so this must exceed the generation timeout.
	RequestTimeout time.Duration
}

// DefaultOptions returns recommended defaults.
func DefaultOptions() Options {
	return Options{RequestTimeout: 90 * time.Second}
}

// Server exposes the assessment pipeline over HTTP.
type Server struct {
	quiz     *quizgen.Service
	explain  *explain.Service
	remarks  *remarks.Service
	attempts *attempt.Manager
	store    attempt.Store
	log      *logger.Logger
	opts     Options
}

// NewServer creates the HTTP surface over the assessment services.
func NewServer(quiz *quizgen.Service, ex *explain.Service, rm *remarks.Service, attempts *attempt.Manager, store attempt.Store, log *logger.Logger, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultOptions().RequestTimeout
	}
	return &Server{
		quiz:     quiz,
		explain:  ex,
		remarks:  rm,
		attempts: attempts,
		store:    store,
		log:      log,
		opts:     opts,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(ar chi.Router) {
		// Stateless generation endpoints.
		ar.Post("/quiz/generate", s.generateQuiz)
		ar.Post("/explanations", s.generateExplanation)
		ar.Post("/remarks", s.generateRemarks)

		// Attempt history.
		ar.Post("/attempts", s.submitAttempt)
		ar.Get("/attempts", s.listAttempts)

		// Timed session flow.
		ar.Post("/sessions", s.startSession)
		ar.Post("/sessions/{sessionID}/answers", s.saveAnswers)
		ar.Post("/sessions/{sessionID}/submit", s.submitSession)
		ar.Post("/sessions/{sessionID}/questions/{index}/explanation", s.sessionExplanation)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	return r
}

// requestLogger records one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
