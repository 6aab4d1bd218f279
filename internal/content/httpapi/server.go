package httpapi

import (
	"context"
	"net"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"task-manager/internal/logging"
)

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server serves the content routes over fasthttp.
type Server struct {
	srv    *fasthttp.Server
	addr   string
	logger *zap.Logger
}

// NewServer creates a server for handler.
func NewServer(cfg ServerConfig, handler *Handler, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)
	return &Server{
		srv: &fasthttp.Server{
			Handler:      NewRouter(handler).Handler,
			Name:         "td",
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		addr:   cfg.Addr,
		logger: logger.Named("http"),
	}
}

// ListenAndServe blocks serving on the configured address until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("content server listening", zap.String("addr", s.addr))
	return s.srv.ListenAndServe(s.addr)
}

// Serve blocks serving on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for open ones or ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}
