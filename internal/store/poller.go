package store

import (
	"context"
	"time"

	"github.com/buildhub/homeowner-gateway/internal/goroutine"
	"github.com/buildhub/homeowner-gateway/internal/logger"
)

// Poller reruns a refresh function on a fixed interval until its context is
// cancelled. The first run happens immediately.
type Poller struct {
	name     string
	interval time.Duration
	refresh  func(ctx context.Context) error
}

func NewPoller(name string, interval time.Duration, refresh func(ctx context.Context) error) *Poller {
	return &Poller{name: name, interval: interval, refresh: refresh}
}

// Start launches the polling loop. Cancelling ctx stops it; there is no
// leaked ticker after cancellation.
func (p *Poller) Start(ctx context.Context) {
	goroutine.SafeGoWithContext(ctx, "poller:"+p.name, func(ctx context.Context) {
		p.run(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.run(ctx)
			}
		}
	})
}

func (p *Poller) run(ctx context.Context) {
	start := time.Now()
	err := p.refresh(ctx)
	pollDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		pollRunsTotal.WithLabelValues(p.name, "error").Inc()
		logger.Log.WithError(err).WithField("store", p.name).Warn("background refresh failed")
		return
	}
	pollRunsTotal.WithLabelValues(p.name, "ok").Inc()
}
