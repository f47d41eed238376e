package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/application/service"
	"github.com/garyjia/invoice-dashboard/internal/infrastructure/session"
	httpapi "github.com/garyjia/invoice-dashboard/internal/interfaces/http"
	"github.com/garyjia/invoice-dashboard/pkg/database"
)

// Container manages all application dependencies and lifecycle.
// It follows Clean Architecture principles with ordered initialization
// and reverse-order teardown.
type Container struct {
	config *Config
	logger *zap.Logger

	// Infrastructure - Data
	db           *database.DB
	repositories *RepositoryBundle

	// Infrastructure - Cache
	cache *CacheBundle

	// Infrastructure - Metrics, sessions and export
	metrics  *MetricsBundle
	sessions *session.Manager
	exporter port.InvoiceExporter

	// Application
	services *ServiceBundle

	// Interfaces
	server *httpapi.Server

	// Lifecycle
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	ready  atomic.Bool
	closed atomic.Bool
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Invoice  port.InvoiceRepository
	Customer port.CustomerRepository
	Revenue  port.RevenueRepository
	User     port.UserRepository
}

// ServiceBundle groups all application services.
type ServiceBundle struct {
	Invoices  service.InvoiceService
	Dashboard service.DashboardService
	Auth      service.AuthService
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components - call Start() to initialize.
func NewContainer(cfg *Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components.
// Components are initialized in dependency order:
// 1. Database and repositories
// 2. View cache
// 3. Metrics, session manager and exporter
// 4. Application services
// 5. HTTP server
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}

	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.logger.Info("Starting container initialization")

	// Step 1: Initialize database and repositories
	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized")

	// Step 2: Initialize view cache
	if err := c.initCache(); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	c.logger.Info("View cache initialized", zap.String("driver", c.config.Cache.Driver))

	// Step 3: Initialize metrics, sessions and export
	c.initInfrastructure()
	c.logger.Info("Infrastructure initialized")

	// Step 4: Initialize application services
	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	c.logger.Info("Application services initialized")

	// Step 5: Build the HTTP server
	c.server = ProvideHTTPServer(&c.config.Server, c.services, c.cache.ViewCache, c.metrics, c.logger)
	c.logger.Info("HTTP server initialized", zap.String("address", c.server.Address()))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	if c.cancel != nil {
		c.cancel()
	}

	// Step 1: Stop HTTP server (reverse of step 5)
	if c.server != nil {
		if err := c.server.Stop(); err != nil {
			c.logger.Error("Failed to stop HTTP server", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop http server: %w", err))
		}
	}

	// Steps 2-3: services and in-process infrastructure need no cleanup

	// Step 4: Close view cache (reverse of step 2)
	if c.cache != nil && c.cache.Close != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Error("Failed to close cache", zap.Error(err))
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		} else {
			c.logger.Info("View cache closed")
		}
	}

	// Step 5: Close database (reverse of step 1)
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		} else {
			c.logger.Info("Database closed")
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	// Check database
	if c.db != nil {
		if err := c.db.Ping(); err != nil {
			status.Components["database"] = ComponentHealth{
				Healthy: false,
				Message: fmt.Sprintf("ping failed: %v", err),
			}
			status.Overall = false
		} else {
			status.Components["database"] = ComponentHealth{Healthy: true}
		}
	} else {
		status.Components["database"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Check cache
	if c.cache != nil {
		status.Components["cache"] = ComponentHealth{
			Healthy: true,
			Message: fmt.Sprintf("driver: %s", c.config.Cache.Driver),
		}
	} else {
		status.Components["cache"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	// Check services
	if c.services != nil {
		status.Components["services"] = ComponentHealth{Healthy: true}
	} else {
		status.Components["services"] = ComponentHealth{
			Healthy: false,
			Message: "not initialized",
		}
		status.Overall = false
	}

	return status
}

// initDatabase initializes the database and all repositories using providers.
func (c *Container) initDatabase() error {
	db, err := ProvideDatabase(c.ctx, &c.config.Database, c.logger)
	if err != nil {
		return err
	}
	c.db = db

	repos, err := ProvideRepositories(c.db, c.logger)
	if err != nil {
		return err
	}
	c.repositories = repos

	return nil
}

// initCache initializes the view cache.
func (c *Container) initCache() error {
	bundle, err := ProvideViewCache(c.ctx, &c.config.Cache, c.logger)
	if err != nil {
		return err
	}
	c.cache = bundle
	return nil
}

// initInfrastructure initializes metrics, the session manager and the exporter.
func (c *Container) initInfrastructure() {
	c.metrics = ProvideMetrics()
	c.sessions = session.NewManager(c.config.Auth.Secret, c.config.Auth.SessionTTL)
	c.exporter = provideExporter(c.logger)
}

// initServices initializes all application services using providers.
func (c *Container) initServices() error {
	services, err := ProvideServices(&ServiceDeps{
		Repos:     c.repositories,
		ViewCache: c.cache.ViewCache,
		Metrics:   c.metrics.Metrics,
		Sessions:  c.sessions,
		Exporter:  c.exporter,
		Logger:    c.logger,
	})
	if err != nil {
		return err
	}
	c.services = services
	return nil
}

// DB returns the database connection.
func (c *Container) DB() *database.DB {
	return c.db
}

// Repositories returns the repository bundle.
func (c *Container) Repositories() *RepositoryBundle {
	return c.repositories
}

// ViewCache returns the view cache.
func (c *Container) ViewCache() port.ViewCache {
	if c.cache == nil {
		return nil
	}
	return c.cache.ViewCache
}

// Services returns the service bundle.
func (c *Container) Services() *ServiceBundle {
	return c.services
}

// Server returns the HTTP server.
func (c *Container) Server() *httpapi.Server {
	return c.server
}

// Logger returns the logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the configuration.
func (c *Container) Config() *Config {
	return c.config
}

// zapLoggerAdapter adapts zap.Logger to the service and http Logger interfaces.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Info(msg, fields...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	fields := convertToZapFields(keysAndValues...)
	a.logger.Error(msg, fields...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
