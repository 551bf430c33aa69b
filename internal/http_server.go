package internal

import (
	"agent-lab/domain"
	"agent-lab/runtime"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxRequestBodyBytes = 64 << 10

// Dispatcher answers one key-value command payload.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string, origin domain.Origin) *runtime.Response
}

// HTTPServer accepts commands posted as key-value bodies. Authentication
// failures and missing credentials answer 204 with no body so a caller cannot
// tell them apart from an accepted command without a response.
type HTTPServer struct {
	log    *slog.Logger
	router Dispatcher
	server *http.Server
}

func NewHTTPServer(log *slog.Logger, addr string, router Dispatcher) *HTTPServer {
	s := &HTTPServer{log: log, router: router}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(limitRequestBody)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/", s.command)
	return r
}

func (s *HTTPServer) command(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}
	response := s.router.Dispatch(r.Context(), string(body), domain.Origin{Kind: domain.OriginHTTP})
	if response == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, response.Encode()); err != nil {
		s.log.Debug("Unable to write response", "error", err)
	}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *HTTPServer) Start() error {
	s.log.Info("HTTP command listener started", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func limitRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
