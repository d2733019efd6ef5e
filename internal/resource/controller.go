package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds request limits.
type Config struct {
	// MaxInFlight is the maximum number of concurrent store commands.
	// If 0, concurrency is unlimited.
	MaxInFlight int64

	// RequestsPerSec is the sustained command rate.
	// If 0, unlimited.
	RequestsPerSec float64

	// Burst is the number of commands allowed above RequestsPerSec.
	// If 0, defaults to 1.
	Burst int
}

// Controller gates store commands.
type Controller struct {
	cfg Config

	inflightSem *semaphore.Weighted // nil if unlimited
	inflight    atomic.Int64
	limiter     *rate.Limiter // nil if unlimited
}

// NewController creates a new controller.
func NewController(cfg Config) *Controller {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	c := &Controller{cfg: cfg}

	if cfg.MaxInFlight > 0 {
		c.inflightSem = semaphore.NewWeighted(cfg.MaxInFlight)
	}

	if cfg.RequestsPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst)
	}

	return c
}

// Acquire waits for the rate limiter and an in-flight slot.
// Every successful Acquire must be paired with Release.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if c.inflightSem != nil {
		if err := c.inflightSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	c.inflight.Add(1)
	return nil
}

// Release frees an in-flight slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}

	if c.inflightSem != nil {
		c.inflightSem.Release(1)
	}
	c.inflight.Add(-1)
}

// InFlight returns the number of commands currently holding a slot.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inflight.Load()
}
