// Package snapshot runs a periodic snapshot scheduler as a defensive
// backstop alongside the engine's synchronous per-event persist (§4.3
// step 5). If a market goes quiet — no trades, no incoming "wait" events —
// the per-event persist never fires; this ticker guarantees a snapshot is
// still written at a bounded interval. Grounded on internal/market/scanner.go's
// ticker-driven Run(ctx) loop shape, generalized from "poll an external API"
// down to "persist local state on a timer".
package snapshot

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler periodically calls save on a fixed interval.
type Scheduler struct {
	interval time.Duration
	save     func() error
	logger   *slog.Logger
}

// New builds a Scheduler that calls save every interval. save is expected
// to close over the market and persister to perform the actual snapshot
// write, e.g. func() error { return persister.SaveSnapshot(m.Name(), m.Snapshot(), m.Now(), true) }.
func New(interval time.Duration, save func() error, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		save:     save,
		logger:   logger.With("component", "snapshot-scheduler"),
	}
}

// Run starts the polling loop. Blocks until ctx is cancelled. A
// non-positive interval disables the scheduler entirely.
func (s *Scheduler) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.save(); err != nil {
				s.logger.Warn("periodic snapshot failed", "err", err)
			}
		}
	}
}
