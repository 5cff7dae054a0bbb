package grpc

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Pinger is satisfied by *sql.DB and the repository DB wrappers
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter periodically pings the Store and publishes the result on the health service
type HealthReporter struct {
	pinger   Pinger
	health   *health.Server
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger

	serving bool
}

// NewHealthReporter creates a new HealthReporter instance
func NewHealthReporter(pinger Pinger, hs *health.Server, interval time.Duration, log zerolog.Logger) *HealthReporter {
	timeout := interval / 2
	if timeout <= 0 || timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &HealthReporter{
		pinger:   pinger,
		health:   hs,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

// Run checks immediately and then on every tick until ctx is cancelled
func (r *HealthReporter) Run(ctx context.Context) error {
	r.Check(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Check(ctx)
		}
	}
}

// Check pings the Store once and updates the serving status
// Returns true when the Store is reachable.
func (r *HealthReporter) Check(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.pinger.PingContext(pingCtx)
	serving := err == nil

	status := healthpb.HealthCheckResponse_SERVING
	if !serving {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	r.health.SetServingStatus("", status)
	r.health.SetServingStatus(ServiceName, status)

	// Log transitions only
	if serving != r.serving {
		if serving {
			r.log.Info().Msg("store reachable, serving")
		} else {
			r.log.Error().Err(err).Msg("store unreachable, not serving")
		}
		r.serving = serving
	}

	return serving
}
