// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/netpersona/popcorn/internal/api"
	"github.com/netpersona/popcorn/internal/catalog"
	"github.com/netpersona/popcorn/internal/channel"
	"github.com/netpersona/popcorn/internal/config"
	"github.com/netpersona/popcorn/internal/db"
	"github.com/netpersona/popcorn/internal/enrichment"
	"github.com/netpersona/popcorn/internal/filter"
	"github.com/netpersona/popcorn/internal/livetv"
	"github.com/netpersona/popcorn/internal/logger"
	"github.com/netpersona/popcorn/internal/media"
	"github.com/netpersona/popcorn/internal/middleware"
	"github.com/netpersona/popcorn/internal/numbering"
	"github.com/netpersona/popcorn/internal/schedule"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	db              *db.DB
	repos           *db.Repositories
	channelService  *channel.ChannelService
	overrideService *channel.OverrideService
	numbers         *numbering.Service
	generator       *schedule.Generator
	runner          *schedule.Runner
	syncer          *catalog.Syncer
	liveTV          *livetv.Service
	posters         *api.PosterHandler
	router          *gin.Engine
	server          *http.Server
}

// New creates a new server instance and wires its services
func New(cfg *config.Config, database *db.DB) (*Server, error) {
	repos := db.NewRepositories(database)

	client, err := enrichment.NewClient(cfg.Enrichment)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrichment client: %w", err)
	}
	// A nil *Client must not end up inside a non-nil interface
	var enricher filter.Enricher
	if client != nil {
		enricher = client
	} else {
		logger.Log.Info().Msg("Enrichment disabled, no API key configured")
	}

	var source catalog.Source
	switch {
	case cfg.Catalog.Path != "":
		source = catalog.NewFileSource(cfg.Catalog.Path)
	case cfg.Catalog.Directory != "":
		if err := media.CheckFFprobeInstalled(); err != nil {
			logger.Log.Warn().
				Err(err).
				Str("directory", cfg.Catalog.Directory).
				Msg("Library directory configured but running times cannot be read")
		}
		source = media.NewDirectorySource(cfg.Catalog.Directory)
	}

	posters, err := api.NewPosterHandler(repos, cfg.Cache.PosterSize, nil)
	if err != nil {
		return nil, err
	}

	channelService := channel.NewChannelService(repos)
	numbers := numbering.NewService(repos)
	generator := schedule.NewGenerator(repos, filter.NewEngine(enricher), cfg.Schedule.Frequency)
	runner := schedule.NewRunner(generator, cfg.Schedule.CheckInterval)

	syncer := catalog.NewSyncer(repos, source)
	syncer.OnPrune(func(ctx context.Context) error {
		_, err := runner.Regenerate(ctx, true)
		return err
	})

	return &Server{
		config:          cfg,
		db:              database,
		repos:           repos,
		channelService:  channelService,
		overrideService: channel.NewOverrideService(repos),
		numbers:         numbers,
		generator:       generator,
		runner:          runner,
		syncer:          syncer,
		liveTV:          livetv.NewService(repos, channelService, numbers),
		posters:         posters,
	}, nil
}

// Runner returns the serialized regeneration entry point
func (s *Server) Runner() *schedule.Runner {
	return s.runner
}

// Syncer returns the catalog syncer
func (s *Server) Syncer() *catalog.Syncer {
	return s.syncer
}

// LiveTV returns the live TV export service
func (s *Server) LiveTV() *livetv.Service {
	return s.liveTV
}

// Prepare runs the startup work: default channel seeding, catalog sync and
// a staleness-checked regeneration, each according to configuration.
// Sync failures are logged and do not stop startup. A sync that pruned rows
// has already forced a rebuild, so the check that follows skips.
func (s *Server) Prepare(ctx context.Context) error {
	if s.config.Schedule.SeedDefaultChannels {
		if _, err := s.channelService.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("failed to seed default channels: %w", err)
		}
	}

	if s.config.Catalog.SyncOnStart {
		if _, err := s.syncer.Sync(ctx); err != nil && !errors.Is(err, catalog.ErrNoSource) {
			logger.Log.Error().
				Err(err).
				Msg("Startup catalog sync failed, serving existing catalog")
		}
	}

	if s.config.Schedule.RegenerateOnStart {
		if _, err := s.runner.Regenerate(ctx, false); err != nil {
			return fmt.Errorf("failed to regenerate schedules: %w", err)
		}
	}

	return nil
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	// Set Gin mode based on log level
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (allows all origins)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Tuner emulation lives at the root where clients expect it
	api.SetupLiveTVRoutes(s.router, s.liveTV, s.config.LiveTV)

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.db, s.repos)
	api.SetupChannelRoutes(apiGroup, s.channelService, s.numbers)
	api.SetupThemedChannelRoutes(apiGroup, s.channelService, s.overrideService, s.generator)
	api.SetupScheduleRoutes(apiGroup, s.runner, s.repos, s.config.Schedule.Frequency)
	api.SetupCatalogRoutes(apiGroup, s.repos, s.syncer)
	api.SetupPosterRoutes(apiGroup, s.posters)
}

// Start starts the background checker and the HTTP server. It blocks until
// the server stops.
func (s *Server) Start(ctx context.Context) error {
	s.setupRouter()

	if err := s.runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start schedule runner: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.runner != nil {
		s.runner.Stop()
	}

	// Check if server was started before attempting shutdown
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
