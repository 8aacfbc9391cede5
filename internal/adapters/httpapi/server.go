package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/AntonCapusta25/email-validator/internal/core"
)

// Server exposes the validation service as a JSON HTTP API.
type Server struct {
	service      *core.ValidatorService
	logger       *zap.Logger
	httpServer   *http.Server
	listenAddr   string
	corsOrigins  []string
	corsMethods  []string
	corsHeaders  []string
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewServer creates a new HTTP API server.
func NewServer(
	service *core.ValidatorService,
	logger *zap.Logger,
	listenAddr string,
	corsOrigins []string,
	corsMethods []string,
	corsHeaders []string,
	readTimeout time.Duration,
	writeTimeout time.Duration,
) *Server {
	return &Server{
		service:      service,
		logger:       logger,
		listenAddr:   listenAddr,
		corsOrigins:  corsOrigins,
		corsMethods:  corsMethods,
		corsHeaders:  corsHeaders,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// router builds the chi router with the standard middleware stack.
func (s *Server) router() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   s.corsMethods,
		AllowedHeaders:   s.corsHeaders,
		AllowCredentials: false,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/", s.handleHome)
	r.Get("/health", s.handleHealth)
	r.Get("/test", s.handleTest)
	r.Post("/validate", s.handleValidate)
	r.Post("/validate/batch", s.handleValidateBatch)

	return r
}

// Start starts the HTTP server. It does not block.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.router(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	s.logger.Info("HTTP API starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// recoverer converts panics into a generic 500 so no request can crash
// the process.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
