package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
	"github.com/raumfrei/offerd/internal/offers/store"
	"github.com/raumfrei/offerd/pkg/cryptox"
	"github.com/raumfrei/offerd/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "offers.db") + "?_busy_timeout=5000"
	st, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
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

func TestOffers_CreateAndFind(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	o := testOffer(false, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, o))

	got, err := st.Offers().FindByTokenHash(ctx, o.TokenHash)
	require.NoError(t, err)
	require.Equal(t, o.ID, got.ID)
	require.Equal(t, o.TenantKey, got.TenantKey)
	require.Equal(t, o.Email, got.Email)
	require.Equal(t, o.TokenHash, got.TokenHash)
	require.JSONEq(t, string(o.FormData), string(got.FormData))
	require.False(t, got.Confirmed)
	require.WithinDuration(t, o.CreatedAt, got.CreatedAt, time.Second)
	require.WithinDuration(t, o.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestOffers_FindByTokenHash_NotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.Offers().FindByTokenHash(context.Background(),
		cryptox.FingerprintToken("no such token"))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOffers_Create_DuplicateTokenHash(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	a := testOffer(false, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, a))

	b := testOffer(false, time.Hour)
	b.TokenHash = a.TokenHash
	require.ErrorIs(t, st.Offers().Create(ctx, b), store.ErrAlreadyExists)
}

func TestOffers_FindActive(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	active := testOffer(true, time.Hour)
	unconfirmed := testOffer(false, time.Hour)
	expired := testOffer(true, -time.Hour)
	otherTenant := testOffer(true, time.Hour)
	otherTenant.TenantKey = "otherportal"

	for _, o := range []domain.Offer{active, unconfirmed, expired, otherTenant} {
		require.NoError(t, st.Offers().Create(ctx, o))
	}

	offers, err := st.Offers().FindActive(ctx, "testportal", now)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, active.ID, offers[0].ID)

	// The public projection must not carry the token hash or lifecycle state
	require.Empty(t, offers[0].TokenHash)
	require.True(t, offers[0].ExpiresAt.IsZero())
}

func TestOffers_Update(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	o := testOffer(false, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, o))

	confirmed := true
	got, err := st.Offers().Update(ctx, o.ID, store.OfferPatch{Confirmed: &confirmed})
	require.NoError(t, err)
	require.True(t, got.Confirmed)

	later := time.Now().UTC().Add(48 * time.Hour)
	got, err = st.Offers().Update(ctx, o.ID, store.OfferPatch{ExpiresAt: &later})
	require.NoError(t, err)
	require.WithinDuration(t, later, got.ExpiresAt, time.Second)
	require.True(t, got.Confirmed, "earlier patch must persist")
}

func TestOffers_Update_NotFound(t *testing.T) {
	st := newTestStore(t)

	confirmed := true
	_, err := st.Offers().Update(context.Background(), idx.New().String(),
		store.OfferPatch{Confirmed: &confirmed})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOffers_Delete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	o := testOffer(true, time.Hour)
	require.NoError(t, st.Offers().Create(ctx, o))

	require.NoError(t, st.Offers().Delete(ctx, o.TokenHash))

	_, err := st.Offers().FindByTokenHash(ctx, o.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Rows are gone, so a second delete has nothing to act on
	require.ErrorIs(t, st.Offers().Delete(ctx, o.TokenHash), store.ErrNotFound)
}

func TestOffers_DeleteExpiredBefore(t *testing.T) {
	st := newTestStore(t)
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

	_, err = st.Offers().FindByTokenHash(ctx, fresh.TokenHash)
	require.NoError(t, err)
}

func TestUsage_Record(t *testing.T) {
	st := newTestStore(t)

	ev := domain.UsageEvent{
		ID:        idx.New().String(),
		TenantKey: "testportal",
		Action:    domain.ActionCreated,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.Usage().Record(context.Background(), ev))
}

func TestPing(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Ping(context.Background()))
}
