package diag

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/inject/component"
	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/logger"
)

const componentName = "diagnostics"

// ShutdownTimeout bounds a graceful Stop.
const ShutdownTimeout = 5 * time.Second

var (
	_ component.Component   = (*Server)(nil)
	_ component.Describable = (*Server)(nil)
)

// Server serves the diagnostics endpoints on a dedicated listener.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	log        *logger.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a Server for r listening on addr. The engine carries the
// recovery and request logging middleware and the routes from Register.
func NewServer(addr string, r *di.Registry, serviceName string, checkers ...HealthChecker) *Server {
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logger.WithComponent(componentName)
	engine := gin.New()
	engine.Use(Recovery(log), RequestLogger(log))
	Register(engine, r, serviceName, checkers...)

	// h2c lets HTTP/2 clients connect without TLS.
	handler := h2c.NewHandler(engine, &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		engine: engine,
		log:    log,
	}
}

// Engine returns the underlying Gin engine for extra routes.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Name returns the component name used for registration.
func (s *Server) Name() string { return componentName }

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("diagnostics server failed to bind %s: %w", s.httpServer.Addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("Diagnostics server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("diagnostics server shutdown: %w", err)
	}

	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()

	s.log.Info("Diagnostics server shut down")
	return nil
}

// Health reports unhealthy until the server is listening.
func (s *Server) Health(_ context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "not listening",
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns summary info for the startup log.
func (s *Server) Describe() component.Description {
	return component.Description{
		Name:    "Diagnostics HTTP server",
		Type:    "server",
		Details: s.Addr(),
	}
}
