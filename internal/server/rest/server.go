package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/dsstudio/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// HTTPServer serves a handler until its context is cancelled.
type HTTPServer struct {
	address      string
	handler      http.Handler
	readTimeout  time.Duration
	writeTimeout time.Duration
	logger       logging.Logger
}

func NewHTTPServer(address string, handler http.Handler, readTimeout, writeTimeout time.Duration, l logging.Logger) *HTTPServer {
	return &HTTPServer{
		address:      address,
		handler:      handler,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		logger:       l.With("module", "http_server"),
	}
}

// Run listens on the configured address and shuts down gracefully when ctx
// is done.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.readTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
