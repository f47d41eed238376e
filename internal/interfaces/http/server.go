// Package http provides HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RequestObserver records served requests
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SecureCookie bool
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Services groups the application services the server exposes
type Services struct {
	Invoices  service.InvoiceService
	Dashboard service.DashboardService
	Auth      service.AuthService
}

// Server is the HTTP server adapter
type Server struct {
	config         ServerConfig
	httpServer     *http.Server
	router         *gin.Engine
	services       Services
	viewCache      port.ViewCache
	requests       RequestObserver
	metricsHandler http.Handler
	logger         Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	services Services,
	viewCache port.ViewCache,
	requests RequestObserver,
	metricsHandler http.Handler,
	logger Logger,
) *Server {
	// Set gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config:         config,
		router:         router,
		services:       services,
		viewCache:      viewCache,
		requests:       requests,
		metricsHandler: metricsHandler,
		logger:         logger,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging middleware
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware logs every request and feeds the request metrics
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		// Log request details
		latency := time.Since(start)
		status := c.Writer.Status()

		if s.requests != nil {
			route := c.FullPath()
			if route == "" {
				route = "unmatched"
			}
			s.requests.ObserveRequest(method, route, status, latency)
		}

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.services, s.viewCache, s.config.SecureCookie, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)
	if s.metricsHandler != nil {
		s.router.GET("/metrics", gin.WrapH(s.metricsHandler))
	}

	// Session
	s.router.POST("/login", handlers.Login)
	s.router.POST("/logout", handlers.Logout)

	// Dashboard routes
	dashboard := s.router.Group("/dashboard", handlers.RequireSession())
	{
		dashboard.GET("", handlers.Overview)
		dashboard.GET("/customers", handlers.ListCustomers)

		// Invoices
		dashboard.GET("/invoices", handlers.ListInvoices)
		dashboard.GET("/invoices/export", handlers.ExportInvoices)
		dashboard.GET("/invoices/create", handlers.NewInvoiceForm)
		dashboard.POST("/invoices", handlers.CreateInvoice)
		dashboard.GET("/invoices/:id", handlers.GetInvoice)
		dashboard.POST("/invoices/:id", handlers.UpdateInvoice)
		dashboard.PUT("/invoices/:id", handlers.UpdateInvoice)
		dashboard.POST("/invoices/:id/delete", handlers.DeleteInvoice)
		dashboard.DELETE("/invoices/:id", handlers.DeleteInvoice)
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := s.Address()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
