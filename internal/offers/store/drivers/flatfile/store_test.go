package flatfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
	"github.com/raumfrei/offerd/internal/offers/store"
	"github.com/raumfrei/offerd/pkg/cryptox"
	"github.com/raumfrei/offerd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "offers.json")
	st, err := NewStore(path)
	require.NoError(t, err)
	return st, path
}

func testOffer(confirmed bool, expiresIn time.Duration) domain.Offer {
	now := time.Now().UTC()
	return domain.Offer{
		ID:        idx.New().String(),
		TenantKey: "testportal",
		Email:     "owner@example.com",
		TokenHash: cryptox.FingerprintToken(cryptox.MustGenerateToken()),
		FormData:  []byte(`{"rooms":3}`),
		Confirmed: confirmed,
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	st, path := newTestStore(t)
	ctx := context.Background()

	a := testOffer(true, time.Hour)
	b := testOffer(false, 2*time.Hour)
	require.NoError(t, st.Offers().Create(ctx, a))
	require.NoError(t, st.Offers().Create(ctx, b))

	// A fresh store over the same file must see identical state
	reopened, err := NewStore(path)
	require.NoError(t, err)

	got, err := reopened.Offers().FindByTokenHash(ctx, a.TokenHash)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, a.Email, got.Email)
	require.JSONEq(t, string(a.FormData), string(got.FormData))
	require.True(t, got.Confirmed)
	require.True(t, a.ExpiresAt.Equal(got.ExpiresAt))

	all, err := reopened.Offers().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestCreate_DuplicateTokenHash(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	a := testOffer(false, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, a))

	b := testOffer(false, time.Hour)
	b.TokenHash = a.TokenHash
	require.ErrorIs(t, st.Offers().Create(ctx, b), store.ErrAlreadyExists)
}

func TestFindActive_Projection(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	active := testOffer(true, time.Hour)
	unconfirmed := testOffer(false, time.Hour)
	expired := testOffer(true, -time.Hour)
	require.NoError(t, st.Offers().Create(ctx, active))
	require.NoError(t, st.Offers().Create(ctx, unconfirmed))
	require.NoError(t, st.Offers().Create(ctx, expired))

	offers, err := st.Offers().FindActive(ctx, "testportal", now)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, active.ID, offers[0].ID)
	require.Empty(t, offers[0].TokenHash)
	require.True(t, offers[0].ExpiresAt.IsZero())
}

func TestUpdate(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	o := testOffer(false, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, o))

	confirmed := true
	got, err := st.Offers().Update(ctx, o.ID, store.OfferPatch{Confirmed: &confirmed})
	require.NoError(t, err)
	require.True(t, got.Confirmed)

	_, err = st.Offers().Update(ctx, idx.New().String(), store.OfferPatch{Confirmed: &confirmed})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete_Tombstone(t *testing.T) {
	st, path := newTestStore(t)
	ctx := context.Background()

	o := testOffer(true, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, o))
	require.NoError(t, st.Offers().Delete(ctx, o.TokenHash))

	// The record stays addressable as a tombstone with the form data gone
	got, err := st.Offers().FindByTokenHash(ctx, o.TokenHash)
	require.NoError(t, err)
	require.True(t, got.Deleted)
	require.Empty(t, got.FormData)

	// Tombstones never show up in listings of active offers
	offers, err := st.Offers().FindActive(ctx, "testportal", time.Now().UTC())
	require.NoError(t, err)
	require.Empty(t, offers)

	// Tombstones survive a reopen
	reopened, err := NewStore(path)
	require.NoError(t, err)
	got, err = reopened.Offers().FindByTokenHash(ctx, o.TokenHash)
	require.NoError(t, err)
	require.True(t, got.Deleted)
}

func TestDeleteExpiredBefore(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	stale := testOffer(true, -48*time.Hour)
	fresh := testOffer(true, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, stale))
	require.NoError(t, st.Offers().Create(ctx, fresh))

	purged, err := st.Offers().DeleteExpiredBefore(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, err = st.Offers().FindByTokenHash(ctx, stale.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsage_RecordAppendsJSONL(t *testing.T) {
	st, path := newTestStore(t)
	ctx := context.Background()

	for _, action := range []domain.UsageAction{domain.ActionCreated, domain.ActionConfirmed} {
		ev := domain.UsageEvent{
			ID:        idx.New().String(),
			TenantKey: "testportal",
			Action:    action,
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, st.Usage().Record(ctx, ev))
	}

	raw, err := os.ReadFile(path + ".events.jsonl")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"action":"created"`)
	require.Contains(t, lines[1], `"action":"confirmed"`)
}

func TestPing(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, st.Ping(context.Background()))
}
