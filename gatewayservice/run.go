// Package gatewayservice boots the board gateway: configuration, upstream
// client, caches, resolvers, HTTP router, and server lifecycle.
package gatewayservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fieldops/boardgate/internal/api"
	"github.com/fieldops/boardgate/internal/boardapi"
	"github.com/fieldops/boardgate/internal/cache"
	"github.com/fieldops/boardgate/internal/config"
	"github.com/fieldops/boardgate/internal/health"
	"github.com/fieldops/boardgate/internal/logger"
	"github.com/fieldops/boardgate/internal/materials"
	"github.com/fieldops/boardgate/internal/pager"
	"github.com/fieldops/boardgate/internal/roster"
	"github.com/fieldops/boardgate/internal/services"
)

// Run starts the gateway HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("boardgate")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("board_api_url", cfg.BoardAPIURL).
		Int("cache_ttl_seconds", cfg.CacheTTLSeconds).
		Bool("materials_configured", cfg.MaterialsConfigured()).
		Msg("Board gateway starting")

	// Cancellable root context bound to SIGINT/SIGTERM.
	ctx, stop := newServerContext()
	defer stop()

	client := boardapi.NewHTTPClient(
		cfg.BoardAPIURL,
		cfg.BoardAPIToken,
		time.Duration(cfg.BoardTimeoutSeconds)*time.Second,
		cfg.BoardPageSize,
	)

	svcHealth := startHealthCheckers(ctx, cfg, log, client)
	router := buildRouter(client, cfg, svcHealth.IsHealthy)

	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter wires the resolvers, services, and handlers.
func buildRouter(client boardapi.Client, cfg *config.Config, isHealthy func() bool) http.Handler {
	queryTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	assetTTL := time.Duration(cfg.AssetCacheTTLSeconds) * time.Second

	queryCache := cache.New(queryTTL)
	assetCache := cache.New(assetTTL)

	coordinator := pager.New(client, queryCache, queryTTL)

	rosterResolver := roster.New(coordinator, queryCache, queryTTL, roster.Boards{
		WorkersBoardID:     cfg.WorkersBoardID,
		WorkerEmailColumn:  cfg.WorkerEmailColumn,
		AssignmentsBoardID: cfg.AssignmentsBoardID,
		WorkerColumn:       cfg.AssignmentWorkerColumn,
		EmailColumn:        cfg.AssignmentEmailColumn,
		TimelineColumn:     cfg.AssignmentTimelineColumn,
		JobColumn:          cfg.AssignmentJobColumn,
		DescColumn:         cfg.AssignmentDescColumn,
		StatusColumn:       cfg.AssignmentStatusColumn,
		FilesColumn:        cfg.AssignmentFilesColumn,
	})
	materialsResolver := materials.New(coordinator, materials.Columns{
		SubBoardID:     cfg.SubMaterialsBoardID,
		MainBoardID:    cfg.MainMaterialsBoardID,
		TitleColumn:    cfg.MaterialTitleColumn,
		NotesColumn:    cfg.MaterialNotesColumn,
		StatusColumn:   cfg.MaterialStatusColumn,
		SupplierColumn: cfg.MaterialSupplierColumn,
	})

	deps := api.Deps{
		Roster:    services.NewRosterService(rosterResolver, client, assetCache, assetTTL),
		Materials: services.NewMaterialsService(materialsResolver),
		Timesheets: services.NewTimesheetService(coordinator, services.TimesheetColumns{
			BoardID:     cfg.TimesheetBoardID,
			EmailColumn: cfg.TimesheetEmailColumn,
			GroupColumn: cfg.TimesheetGroupColumn,
			HoursColumn: cfg.TimesheetHoursColumn,
		}),
		Diag: services.NewDiagService(map[string]*cache.Store{
			"query":  queryCache,
			"assets": assetCache,
		}),
		IsHealthy:        isHealthy,
		APIKey:           cfg.APIKey,
		DefaultPageLimit: cfg.DefaultPageLimit,
		MaxPageLimit:     cfg.MaxPageLimit,
	}
	return api.NewRouter(deps)
}

// startHealthCheckers starts the upstream checker and the service-level
// aggregate.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, client boardapi.Client) *health.Aggregate {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	boardChecker := boardapi.NewHealthChecker(client, log, probeTimeout)
	go boardChecker.Start(ctx, interval)

	svcHealth := health.NewAggregate(log, boardChecker)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// startupHealthTimeout returns the startup health window in seconds,
// interval*2 with a minimum of 60.
func startupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup
// window expires. Checkers start unhealthy and need a first probe cycle.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.Aggregate) error {
	timeoutSeconds := startupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: board service not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context bound to SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
