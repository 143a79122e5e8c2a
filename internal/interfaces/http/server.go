package http

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/config"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// Server wraps the net/http server with graceful shutdown.
type Server struct {
	srv    *nethttp.Server
	cfg    config.ServerConfig
	logger logging.Logger
}

// NewServer builds the HTTP server around a gin engine.
func NewServer(cfg config.ServerConfig, engine *gin.Engine, logger logging.Logger) *Server {
	return &Server{
		srv: &nethttp.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		cfg:    cfg,
		logger: logger.Named("http"),
	}
}

// Start serves until the listener closes.  A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return errors.Wrap(err, errors.ErrCodeInternal, "http server failed")
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("http server shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "http server shutdown failed")
	}
	return nil
}
