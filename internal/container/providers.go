package container

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-dashboard/internal/application/form"
	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/application/service"
	"github.com/garyjia/invoice-dashboard/internal/infrastructure/cache"
	"github.com/garyjia/invoice-dashboard/internal/infrastructure/export"
	"github.com/garyjia/invoice-dashboard/internal/infrastructure/metrics"
	"github.com/garyjia/invoice-dashboard/internal/infrastructure/persistence/repository"
	"github.com/garyjia/invoice-dashboard/internal/infrastructure/session"
	httpapi "github.com/garyjia/invoice-dashboard/internal/interfaces/http"
	"github.com/garyjia/invoice-dashboard/migrations"
	"github.com/garyjia/invoice-dashboard/pkg/database"
)

// CacheBundle holds the view cache and its closer.
type CacheBundle struct {
	ViewCache port.ViewCache
	Close     func() error
}

// MetricsBundle holds the Prometheus registry and recorders.
type MetricsBundle struct {
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Handler  http.Handler
}

// ServiceDeps holds the dependencies of the application services.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	ViewCache port.ViewCache
	Metrics   port.MutationMetrics
	Sessions  *session.Manager
	Exporter  port.InvoiceExporter
	Logger    *zap.Logger
}

// ProvideDatabase opens the database and runs pending migrations when enabled.
func ProvideDatabase(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if cfg.Driver == database.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.New(ctx, database.Config{
		Driver:          cfg.Driver,
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if _, err := database.NewMigrator(db, logger).Run(ctx, migrations.FS); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return db, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Invoice:  repository.NewInvoiceRepository(db.DB, logger),
		Customer: repository.NewCustomerRepository(db.DB, logger),
		Revenue:  repository.NewRevenueRepository(db.DB, logger),
		User:     repository.NewUserRepository(db.DB, logger),
	}, nil
}

// ProvideViewCache creates the configured view cache.
func ProvideViewCache(ctx context.Context, cfg *CacheConfig, logger *zap.Logger) (*CacheBundle, error) {
	switch cfg.Driver {
	case CacheDriverRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		}, logger)
		if err != nil {
			return nil, err
		}
		return &CacheBundle{ViewCache: rc, Close: rc.Close}, nil
	case CacheDriverMemory, "":
		return &CacheBundle{
			ViewCache: cache.NewMemoryCache(logger, cache.WithTTL(cfg.TTL)),
			Close:     func() error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %q", cfg.Driver)
	}
}

// ProvideMetrics creates a registry with the dashboard and runtime collectors.
func ProvideMetrics() *MetricsBundle {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &MetricsBundle{
		Registry: registry,
		Metrics:  metrics.New(registry),
		Handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	logger := &zapLoggerAdapter{logger: deps.Logger}
	validator := form.NewValidator()

	return &ServiceBundle{
		Invoices: service.NewInvoiceService(
			deps.Repos.Invoice,
			deps.ViewCache,
			deps.Metrics,
			validator,
			logger,
		),
		Dashboard: service.NewDashboardService(
			deps.Repos.Invoice,
			deps.Repos.Customer,
			deps.Repos.Revenue,
			deps.Exporter,
			logger,
		),
		Auth: service.NewAuthService(
			deps.Repos.User,
			deps.Sessions,
			deps.Sessions,
			validator,
			logger,
		),
	}, nil
}

// ProvideHTTPServer creates the HTTP server adapter.
func ProvideHTTPServer(cfg *ServerConfig, services *ServiceBundle, viewCache port.ViewCache, mb *MetricsBundle, logger *zap.Logger) *httpapi.Server {
	return httpapi.NewServer(
		httpapi.ServerConfig{
			Host:         cfg.Host,
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			SecureCookie: cfg.SecureCookie,
		},
		httpapi.Services{
			Invoices:  services.Invoices,
			Dashboard: services.Dashboard,
			Auth:      services.Auth,
		},
		viewCache,
		mb.Metrics,
		mb.Handler,
		&zapLoggerAdapter{logger: logger},
	)
}

// provideExporter creates the invoice spreadsheet exporter.
func provideExporter(logger *zap.Logger) port.InvoiceExporter {
	return export.NewXLSXExporter(logger)
}
