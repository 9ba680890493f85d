package store

import (
	"context"
	"errors"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// flatfile) implement this. Every mutating operation is atomic on its own;
// multi-step invariants (offer plus its form data) are the driver's problem,
// not the caller's. That keeps the contract satisfiable by a backend whose
// only atomic primitive is a whole-file rewrite.
type Store interface {
	Offers() Offers
	Usage() Usage

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backend is still usable.
	Ping(ctx context.Context) error
}

// OfferPatch is a partial update. Nil fields are left untouched.
type OfferPatch struct {
	Confirmed *bool
	ExpiresAt *time.Time
}

type Offers interface {
	// Create atomically stores a new offer together with its form data.
	// Returns ErrAlreadyExists if an offer with the same token hash exists;
	// the caller treats that as a token-generation retry trigger.
	Create(ctx context.Context, o domain.Offer) error

	// FindByTokenHash returns the offer with the given token fingerprint,
	// reflecting the latest committed state. Flat-file tombstones (offers
	// with Deleted set) are returned too so callers can distinguish "gone"
	// from "never existed". Returns ErrNotFound otherwise.
	FindByTokenHash(ctx context.Context, hash string) (domain.Offer, error)

	// FindActive returns the tenant's offers that are confirmed, not
	// deleted, and expire after now. The returned offers carry only the
	// public projection fields (id, email, form data, created-at); token
	// hash, flags, and expiration are never populated.
	FindActive(ctx context.Context, tenantKey string, now time.Time) ([]domain.Offer, error)

	// ListAll returns the full unsanitized offer set. Administrative use only.
	ListAll(ctx context.Context) ([]domain.Offer, error)

	// Update applies the patch to the offer with the given id and returns
	// the post-update entity. Returns ErrNotFound if no such offer exists.
	Update(ctx context.Context, id string, patch OfferPatch) (domain.Offer, error)

	// Delete removes the offer with the given token hash together with its
	// owned form data. The sqlite driver removes the rows; the flat-file
	// driver keeps a tombstone with Deleted set.
	Delete(ctx context.Context, hash string) error

	// DeleteExpiredBefore purges offers whose expiration lies before cutoff.
	// Housekeeping only; returns the number of offers removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Usage interface {
	// Record stores a usage event. Best effort: callers swallow errors.
	Record(ctx context.Context, ev domain.UsageEvent) error
}
