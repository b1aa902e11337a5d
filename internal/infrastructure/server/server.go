package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentOS/assistant/internal/api/http"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/api/middleware"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/api/ws"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/apps"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/host"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/notify"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/providers"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/reminder"
	"github.com/GriffinCanCode/AgentOS/assistant/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	registry   *service.Registry
	catalogs   *apps.CatalogHolder
	launcher   *apps.Launcher
	scheduler  *reminder.Scheduler
	dispatcher *notify.Dispatcher
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	stopWatch  context.CancelFunc
}

// Option customizes server construction
type Option func(*options)

type options struct {
	os     host.OS
	logger *logging.Logger
}

// WithHost replaces the operating system adapter
func WithHost(os host.OS) Option {
	return func(o *options) { o.os = os }
}

// WithLogger replaces the logger built from the config
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewLogger builds the process logger from cfg
func NewLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.DefaultConfig()
	if cfg.Logging.Development {
		lc = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		lc.Level = cfg.Logging.Level
	}
	logger, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// LoadCatalog returns the configured catalog, or the built-in one when no
// path is set.
func LoadCatalog(cfg *config.Config) (*apps.CatalogHolder, error) {
	if cfg.Catalog.Path == "" {
		return apps.NewCatalogHolder(apps.DefaultCatalog()), nil
	}
	c, err := apps.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	return apps.NewCatalogHolder(c), nil
}

// NewResolver assembles the four candidate sources in precedence order
func NewResolver(cfg *config.Config, os host.OS, catalogs *apps.CatalogHolder, logger *logging.Logger, metrics *monitoring.Metrics) *apps.Resolver {
	roots := cfg.Resolver.ShortcutRoots
	if len(roots) == 0 {
		roots = host.DefaultShortcutRoots()
	}
	return apps.NewResolver(catalogs, []apps.Source{
		apps.NewStartMenuSource(os, roots, catalogs),
		apps.NewRegistrySource(os, catalogs),
		apps.NewKnownSource(os, catalogs),
		apps.NewPathSource(os),
	},
		apps.WithCache(cfg.Resolver.CacheSize, cfg.Resolver.CacheTTL),
		apps.WithResolverLogger(logger),
		apps.WithResolverMetrics(metrics),
	)
}

// NewServer creates a new server instance. Background workers are started;
// call Close to stop them.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg); err != nil {
			return nil, err
		}
	}
	if o.os == nil {
		o.os = host.NewLocal(logger)
	}

	logger.Info("Initializing assistant server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("catalog", cfg.Catalog.Path),
	)

	metrics := monitoring.NewMetrics()

	catalogs, err := LoadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("Catalog loaded", zap.Int("entries", catalogs.Load().Len()))

	watchCtx, stopWatch := context.WithCancel(context.Background())
	if cfg.Catalog.Path != "" && cfg.Catalog.Watch {
		if err := apps.WatchCatalog(watchCtx, cfg.Catalog.Path, catalogs, logger); err != nil {
			logger.Warn("Catalog hot reload disabled", zap.Error(err))
		}
	}

	resolver := NewResolver(cfg, o.os, catalogs, logger, metrics)
	launcher := apps.NewLauncher(o.os, resolver, catalogs, logger, metrics)

	dispatcher := notify.NewDispatcher(o.os, notify.Config{
		QueueSize:        cfg.Notify.QueueSize,
		Backoff:          cfg.Notify.Backoff,
		HistorySize:      cfg.Notify.HistorySize,
		AppID:            cfg.Notify.AppID,
		BreakerThreshold: cfg.Notify.BreakerThreshold,
		BreakerCooldown:  cfg.Notify.BreakerCooldown,
	}, logger, metrics)
	dispatcher.Start()

	scheduler := reminder.NewScheduler(reminder.NewStore(), dispatcher,
		reminder.WithLogger(logger),
		reminder.WithMetrics(metrics),
		reminder.WithRetention(cfg.Reminder.Retention),
		reminder.WithDefaultTitle(cfg.Reminder.DefaultTitle),
	)
	scheduler.Start()

	registry := service.NewRegistry(logger, metrics)
	if err := providers.RegisterAll(registry, providers.Deps{
		Launcher:   launcher,
		Scheduler:  scheduler,
		Dispatcher: dispatcher,
	}, logger); err != nil {
		stopWatch()
		_ = scheduler.Close()
		_ = dispatcher.Close(context.Background())
		return nil, fmt.Errorf("register providers: %w", err)
	}
	logger.Info("Service providers registered", zap.Any("stats", registry.Stats()))

	s := &Server{
		registry:   registry,
		catalogs:   catalogs,
		launcher:   launcher,
		scheduler:  scheduler,
		dispatcher: dispatcher,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
		tracer:     tracing.New(logger),
		stopWatch:  stopWatch,
	}
	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(s.tracer))
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if s.config.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", s.config.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.config.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.config.RateLimit.RequestsPerSecond,
			Burst:             s.config.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(s.registry, s.scheduler, s.dispatcher, s.catalogs, s.logger)
	wsHandler := ws.NewHandler(s.registry, s.logger, s.metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/services", handlers.ListServices)
	router.POST("/commands", handlers.ExecuteCommands)
	router.GET("/reminders", handlers.ListReminders)
	router.GET("/notifications", handlers.NotificationHistory)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return router
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the command registry
func (s *Server) Registry() *service.Registry {
	return s.registry
}

// Addr is the configured listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
}

// Run starts the HTTP server and blocks until it stops. A server stopped
// by Close returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.Addr()))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close gracefully shuts down the server. Pending reminders are cancelled
// and queued notifications get until the shutdown timeout to drain.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	s.stopWatch()
	if err := s.scheduler.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close scheduler: %w", err))
	}
	if err := s.dispatcher.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
	}

	s.tracer.Close()
	_ = s.logger.Sync()
	return errors.Join(errs...)
}
