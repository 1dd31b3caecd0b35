package boardapi

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// HealthChecker monitors board service reachability via Client.Ping.
type HealthChecker struct {
	client       Client
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewHealthChecker creates a board service health checker.
func NewHealthChecker(client Client, log zerolog.Logger, probeTimeout time.Duration) *HealthChecker {
	hc := &HealthChecker{client: client, log: log, probeTimeout: probeTimeout}
	hc.healthy.Store(0) // start unhealthy until first successful probe
	return hc
}

func (hc *HealthChecker) Name() string    { return "boardapi" }
func (hc *HealthChecker) IsHealthy() bool { return hc.healthy.Load() == 1 }

// Start probes the upstream on the given interval until ctx is cancelled.
func (hc *HealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		checkCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()

		if err := hc.client.Ping(checkCtx); err != nil {
			hc.healthy.Store(0)
			hc.log.Error().Str("checker", hc.Name()).Err(err).Msg("board service health check failed")
			return
		}
		hc.healthy.Store(1)
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}
