package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/raumfrei/offerd/internal/offers/store"
	"github.com/raumfrei/offerd/pkg/slogx"
)

// Housekeeping periodically purges offers whose expiration lies further in
// the past than the retention window. Expired offers stay addressable until
// then so their owners can still extend or delete them; purging is a
// retention decision, not part of the lifecycle.
//
// A retention of zero or less disables purging entirely and Start becomes a
// no-op, which is the default.
type Housekeeping struct {
	Store     store.Store
	Interval  time.Duration
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

func (h *Housekeeping) Start(ctx context.Context) {
	if h.Retention <= 0 {
		return
	}
	if h.Interval <= 0 {
		h.Interval = time.Hour
	}

	h.stopCh = make(chan struct{})
	h.doneCh = make(chan struct{})

	go h.run(ctx)
}

func (h *Housekeeping) run(ctx context.Context) {
	defer close(h.doneCh)

	log := slogx.FromContext(ctx)
	log.Info("housekeeping started",
		"interval", h.Interval.String(),
		"retention", h.Retention.String(),
	)

	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.purge(ctx)
		case <-h.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (h *Housekeeping) purge(ctx context.Context) {
	log := slogx.FromContext(ctx)

	cutoff := time.Now().UTC().Add(-h.Retention)
	purged, err := h.Store.Offers().DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Error("housekeeping purge failed", slog.Any("error", err))
		return
	}
	if purged > 0 {
		log.Info("purged stale offers", "count", purged, "cutoff", cutoff)
	}
}

// Stop signals the worker and waits for the in-flight sweep to finish. Safe
// to call when Start never ran.
func (h *Housekeeping) Stop() {
	if h.stopCh == nil {
		return
	}
	close(h.stopCh)
	<-h.doneCh
}
