// internal/poller/runner.go
package poller

import (
	"context"
	"time"

	"github.com/openhru/brinkd/internal/registry"
)

// Run drives one cadence group until ctx is done. An immediate first cycle
// fills the snapshot at startup; after that the ticker paces the loop. An
// in-flight transport call is allowed to complete on cancellation, no new
// call starts afterwards.
func (p *Poller) Run(ctx context.Context, cadence registry.Cadence, interval time.Duration) {
	p.Cycle(ctx, cadence)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Cycle(ctx, cadence)
		}
	}
}
