// Package signals ties process signals to context cancellation.
package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// Shutdowner is an interface for objects that can be gracefully shut down.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// WithSignalContext returns a context that is canceled on SIGINT or SIGTERM.
func WithSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// GracefulShutdown shuts down every given Shutdowner within timeout, in
// order. This function is intended to be used in a defer statement.
func GracefulShutdown(timeout time.Duration, shutdowners ...Shutdowner) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, s := range shutdowners {
		if s == nil {
			continue
		}
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Failed to shutdown gracefully")
		}
	}
}
