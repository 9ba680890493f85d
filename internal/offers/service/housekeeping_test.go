package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHousekeeping_DisabledByDefault(t *testing.T) {
	svc, _ := newTestService(t)

	h := &Housekeeping{Store: svc.Store, Interval: time.Millisecond}
	h.Start(context.Background())

	// Retention 0 means Start never launched a worker; Stop must be safe
	h.Stop()
}

func TestHousekeeping_PurgesStaleOffers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plantOffer(t, svc, true, -time.Hour)            // stale, beyond retention
	fresh := plantOffer(t, svc, true, -time.Minute) // expired but within retention

	h := &Housekeeping{
		Store:     svc.Store,
		Interval:  time.Hour,
		Retention: 30 * time.Minute,
	}
	h.purge(ctx)

	offers, err := svc.AllOffers(ctx)
	require.NoError(t, err)
	require.Len(t, offers, 1)

	// The recently expired offer survives and can still be extended
	require.NoError(t, svc.Extend(ctx, fresh, 7))
}

func TestHousekeeping_StartStop(t *testing.T) {
	svc, _ := newTestService(t)

	h := &Housekeeping{
		Store:     svc.Store,
		Interval:  5 * time.Millisecond,
		Retention: time.Minute,
	}
	h.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	h.Stop()
}
