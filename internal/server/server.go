package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ShutdownTimeout время на завершение активных запросов
const ShutdownTimeout = 30 * time.Second

// Server HTTP сервер API
type Server struct {
	logger *slog.Logger
	http   *http.Server
	router *Router
}

// New создает сервер на адресе addr
func New(logger *slog.Logger, addr string, router *Router) *Server {
	return &Server{
		logger: logger,
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Run запускает сервер и блокируется до отмены ctx, после чего
// корректно завершает работу, ожидая активные запросы не дольше ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	defer s.router.Close()

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
