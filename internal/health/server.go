// Package health serves the keep-alive endpoint and pings it periodically so
// hosting platforms that sleep idle services keep the bot running.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mroshb/quiz_bot/internal/quiz"
	"github.com/mroshb/quiz_bot/pkg/logger"
)

// StatusFunc reports the current quiz status for the root endpoint.
type StatusFunc func() quiz.Status

type statusResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Quiz    *quizStatus `json:"quiz,omitempty"`
}

type quizStatus struct {
	State    string `json:"state"`
	Question int    `json:"question,omitempty"`
	Total    int    `json:"total"`
}

// NewRouter builds the keep-alive routes: "/" with a JSON status and
// "/health" answering a plain OK.
func NewRouter(status StatusFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		resp := statusResponse{
			Status:  "Bot activo",
			Message: "El bot de cuestionarios está funcionando",
		}
		if status != nil {
			s := status()
			resp.Quiz = &quizStatus{State: s.State.String(), Total: s.Total}
			if s.State != quiz.StateCompleted {
				resp.Quiz.Question = s.Index + 1
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Warn("Failed to encode status", "error", err)
		}
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, "OK")
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

type Server struct {
	srv *http.Server
}

func NewServer(port string, status StatusFunc) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(status),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("Keep-alive server listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("keep-alive server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
