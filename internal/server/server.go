package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/graphein-app/termhub/internal/api/middleware"
	httpapi "github.com/graphein-app/termhub/internal/http"
	"github.com/graphein-app/termhub/internal/infrastructure/config"
	"github.com/graphein-app/termhub/internal/infrastructure/logging"
	"github.com/graphein-app/termhub/internal/infrastructure/monitoring"
	terminalProvider "github.com/graphein-app/termhub/internal/providers/terminal"
	"github.com/graphein-app/termhub/internal/service"
	term "github.com/graphein-app/termhub/internal/terminal"
	"github.com/graphein-app/termhub/internal/ws"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	router   *gin.Engine
	registry *service.Registry
	sessions *term.Registry
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger, _ = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			OutputPaths: []string{"stdout"},
		})
		if logger == nil {
			logger = logging.NewDefault()
		}
	}

	logger.Info("Initializing terminal service",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
	)

	metrics := monitoring.NewMetrics()

	// Platform strategies are selected once here, not branched at call sites.
	resolver := term.NewResolver()
	reaper := term.NewReaper()

	sessions := term.NewRegistry(resolver, reaper, logger.Named("sessions"), term.Config{
		DefaultCols:    cfg.Terminal.DefaultCols,
		DefaultRows:    cfg.Terminal.DefaultRows,
		FlushInterval:  cfg.Terminal.FlushInterval,
		FlushThreshold: cfg.Terminal.FlushThreshold,
	}).WithMetrics(metrics)

	runner := term.NewRunner(logger.Named("runner"), cfg.Terminal.RunTimeout)

	serviceRegistry := service.NewRegistry()
	if err := serviceRegistry.Register(terminalProvider.NewProvider(sessions, runner, resolver)); err != nil {
		return nil, fmt.Errorf("register terminal provider: %w", err)
	}
	logger.Info("Service providers registered")

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}
	router.Use(monitoring.Middleware(metrics))

	handlers := httpapi.NewHandlers(serviceRegistry, sessions, metrics)
	wsHandler := ws.NewHandler(sessions, logger.Named("ws"), metrics)

	// Health
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Service management
	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Sessions
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id/stream", wsHandler.HandleSession)

	// Metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return &Server{
		router:   router,
		registry: serviceRegistry,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting terminal service", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close terminates every live session and releases resources. Exit
// notifications are suppressed during this mass teardown.
func (s *Server) Close() error {
	s.logger.Info("Shutting down, terminating sessions",
		zap.Int("sessions", s.sessions.Count()),
	)
	s.sessions.Cleanup()
	return s.logger.Sync()
}
