package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/reelfinder/reelfinder/internal/api/handlers"
	apimw "github.com/reelfinder/reelfinder/internal/api/middleware"
	"github.com/reelfinder/reelfinder/internal/api/ratelimit"
	"github.com/reelfinder/reelfinder/internal/config"
	"github.com/reelfinder/reelfinder/internal/metadata"
	"github.com/reelfinder/reelfinder/internal/metrics"
	"github.com/reelfinder/reelfinder/internal/scheduler"
	"github.com/reelfinder/reelfinder/internal/scheduler/tasks"
	"github.com/reelfinder/reelfinder/internal/search"
	"github.com/reelfinder/reelfinder/internal/validation"
	"github.com/reelfinder/reelfinder/internal/websocket"
)

// Server handles HTTP requests for the ReelFinder API.
type Server struct {
	echo      *echo.Echo
	hub       *websocket.Hub
	scheduler *scheduler.Scheduler
	logger    zerolog.Logger
	cfg       *config.Config
	startTime time.Time

	client      metadata.OMDBClient
	registry    *search.Registry
	validator   *validation.Validator
	rateLimiter *ratelimit.IPLimiter
	metrics     *prometheus.Registry
}

// NewServer creates a new API server. Session state changes are broadcast
// through hub and housekeeping tasks are registered with sched; either may
// be nil.
func NewServer(cfg *config.Config, client metadata.OMDBClient, hub *websocket.Hub, sched *scheduler.Scheduler, logger zerolog.Logger) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	v, err := validation.New(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}
	e.Validator = v

	s := &Server{
		echo:        e,
		hub:         hub,
		scheduler:   sched,
		logger:      logger.With().Str("component", "api").Logger(),
		cfg:         cfg,
		startTime:   time.Now(),
		client:      client,
		validator:   v,
		registry:    search.NewRegistry(client, logger),
		rateLimiter: ratelimit.NewIPLimiter(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst),
		metrics:     prometheus.NewRegistry(),
	}

	if hub != nil {
		s.registry.SetBroadcaster(hub)
	}

	metrics.Register(s.metrics)
	s.metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if sched != nil {
		if err := tasks.RegisterSessionSweepTask(sched, s.registry, cfg.Sessions); err != nil {
			return nil, err
		}
		if err := tasks.RegisterRateLimitCleanupTask(sched, s.rateLimiter); err != nil {
			return nil, err
		}
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(apimw.SecurityHeaders())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Str("requestId", v.RequestID).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
				return nil
			}
			s.logger.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("requestId", v.RequestID).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s.echo.Use(apimw.Metrics())

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{})))

	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}

	api := s.echo.Group("/api/v1", s.rateLimiter.Middleware())

	metadata.NewHandlers(s.client).RegisterRoutes(api)
	search.NewHandlers(s.registry, s.validator).RegisterRoutes(api.Group("/sessions"))

	if s.scheduler != nil {
		handlers.NewSchedulerHandler(s.scheduler).RegisterRoutes(api.Group("/scheduler"))
	}
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	address := s.cfg.Server.Address()
	s.logger.Info().Str("address", address).Str("client", s.client.Name()).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets the server be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Registry returns the search session registry.
func (s *Server) Registry() *search.Registry {
	return s.registry
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"client":   s.client.Name(),
		"sessions": s.registry.Len(),
		"uptime":   time.Since(s.startTime).Round(time.Second).String(),
	})
}
