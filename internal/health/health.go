// Package health aggregates component health probes into one service flag.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Checker is implemented by component-level checkers (board upstream, and
// whatever else a deployment wires in).
type Checker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// Aggregate folds component checkers into a single service health flag.
// The service is healthy only while every dependency is.
type Aggregate struct {
	healthy atomic.Int32
	deps    []Checker
	log     zerolog.Logger
}

// NewAggregate creates an Aggregate over deps. It starts unhealthy until
// the first evaluation.
func NewAggregate(log zerolog.Logger, deps ...Checker) *Aggregate {
	a := &Aggregate{deps: deps, log: log}
	a.healthy.Store(0)
	return a
}

// IsHealthy returns the cached service health.
func (a *Aggregate) IsHealthy() bool { return a.healthy.Load() == 1 }

// Start re-evaluates dependency health on the given interval until ctx is
// cancelled, logging transitions.
func (a *Aggregate) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := int32(0)
	eval := func() {
		all := int32(1)
		for _, c := range a.deps {
			if !c.IsHealthy() {
				all = 0
			}
		}
		a.healthy.Store(all)
		if all != prev {
			if all == 1 {
				a.log.Info().Msg("service health: UP")
			} else {
				a.log.Error().Msg("service health: DOWN")
			}
			prev = all
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}
