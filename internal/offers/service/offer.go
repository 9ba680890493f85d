package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
	"github.com/raumfrei/offerd/internal/offers/mail"
	"github.com/raumfrei/offerd/internal/offers/store"
	"github.com/raumfrei/offerd/internal/offers/tenant"
	"github.com/raumfrei/offerd/pkg/cryptox"
	"github.com/raumfrei/offerd/pkg/idx"
	"github.com/raumfrei/offerd/pkg/slogx"
)

var (
	ErrUnknownTenant       = errors.New("unknown tenant")
	ErrInvalidDuration     = errors.New("duration is not in the allowed set")
	ErrInvalidFormData     = errors.New("form data does not match the tenant schema")
	ErrOfferNotFound       = errors.New("no offer for this token")
	ErrOfferGone           = errors.New("offer is expired or deleted")
	ErrOfferNotConfirmed   = errors.New("offer is deleted or not yet confirmed")
	ErrOfferAlreadyDeleted = errors.New("offer is already deleted")
)

// tokenRetries bounds how often creation retries on a fingerprint collision.
// A collision is astronomically unlikely; hitting the bound means the token
// source is broken and failing loudly is the right move.
const tokenRetries = 3

// DurationPolicy is the fixed set of offer lifetimes. Allowed values are
// counts of Unit; the unit is a deployment policy (days in production,
// shorter in tests), not hardwired into the state machine.
type DurationPolicy struct {
	Allowed []int
	Unit    time.Duration
}

// DefaultDurations matches the original deployment policy: 3, 7, 14 or 30 days.
func DefaultDurations() DurationPolicy {
	return DurationPolicy{
		Allowed: []int{3, 7, 14, 30},
		Unit:    24 * time.Hour,
	}
}

func (p DurationPolicy) Valid(n int) bool {
	for _, allowed := range p.Allowed {
		if n == allowed {
			return true
		}
	}
	return false
}

func (p DurationPolicy) Lifetime(n int) time.Duration {
	return time.Duration(n) * p.Unit
}

// OfferService is the offer lifecycle manager. It owns the state machine
// (created -> confirmed -> deleted, with time-based expiry orthogonal to it),
// guards every transition behind the secret token, and triggers notification
// dispatch and usage recording. Offers are mutated here and nowhere else.
type OfferService struct {
	Store     store.Store
	Tenants   *tenant.Registry
	Mailer    mail.Dispatcher
	Durations DurationPolicy
}

// Create validates the submission, generates the secret token, persists the
// offer in unconfirmed state, and returns the raw token. This is the only
// code path that ever sees the raw token besides the notification mail; it
// is not retrievable again through any other operation.
func (s *OfferService) Create(
	ctx context.Context,
	tenantKey string,
	email string,
	formData json.RawMessage,
	duration int,
) (string, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve the tenant and validate the submission against its schema.
	t, ok := s.Tenants.Resolve(tenantKey)
	if !ok {
		return "", ErrUnknownTenant
	}
	if !s.Durations.Valid(duration) {
		return "", ErrInvalidDuration
	}
	if err := t.ValidateForm(formData); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormData, err)
	}

	// 2. Generate the token and persist. A fingerprint collision surfaces as
	// ErrAlreadyExists from the unique index and triggers a fresh token, so
	// the race is settled by the store, not by a read-then-write check.
	var offer domain.Offer
	var token string
	for attempt := 0; ; attempt++ {
		var err error
		token, err = cryptox.GenerateToken()
		if err != nil {
			return "", err
		}

		now := time.Now().UTC()
		offer = domain.Offer{
			ID:        idx.New().String(),
			TenantKey: tenantKey,
			Email:     email,
			TokenHash: cryptox.FingerprintToken(token),
			FormData:  formData,
			Confirmed: false,
			CreatedAt: now,
			ExpiresAt: now.Add(s.Durations.Lifetime(duration)),
		}

		err = s.Store.Offers().Create(ctx, offer)
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrAlreadyExists) && attempt < tokenRetries {
			log.Warn("token fingerprint collision, regenerating", "attempt", attempt+1)
			continue
		}
		return "", err
	}

	// 3. Side effects. Both are best effort: the offer is committed, a mail
	// or analytics failure must not undo that.
	s.notify(ctx, "request_confirmation", func() error {
		return s.Mailer.SendConfirmationRequest(ctx, offer, t.Name, token)
	})
	s.recordUsage(ctx, tenantKey, domain.ActionCreated)

	log.Info("offer created",
		"offer_id", offer.ID,
		"tenant", tenantKey,
		"expires_at", offer.ExpiresAt,
	)

	return token, nil
}

// GetByToken hashes the secret and looks the offer up by fingerprint. A
// malformed token, a wrong token, and a missing offer are deliberately
// indistinguishable to avoid a guessing side channel.
func (s *OfferService) GetByToken(ctx context.Context, token string) (domain.Offer, error) {
	if !cryptox.ValidTokenFormat(token) {
		return domain.Offer{}, ErrOfferNotFound
	}

	offer, err := s.Store.Offers().FindByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Offer{}, ErrOfferNotFound
	}
	if err != nil {
		return domain.Offer{}, err
	}
	return offer, nil
}

// Confirm flips the one-way confirmed flag. Confirming an already-confirmed
// offer is a silent no-op: same end state, no second mail, no usage event.
// Expired or deleted offers cannot be confirmed.
func (s *OfferService) Confirm(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)

	offer, err := s.GetByToken(ctx, token)
	if err != nil {
		return err
	}

	if offer.Deleted || offer.IsExpired(time.Now().UTC()) {
		return ErrOfferGone
	}
	if offer.Confirmed {
		return nil
	}

	confirmed := true
	offer, err = s.Store.Offers().Update(ctx, offer.ID, store.OfferPatch{Confirmed: &confirmed})
	if err != nil {
		return err
	}

	s.notify(ctx, "confirmed", func() error {
		return s.Mailer.SendConfirmed(ctx, offer, s.portalName(offer.TenantKey), token)
	})
	s.recordUsage(ctx, offer.TenantKey, domain.ActionConfirmed)

	log.Info("offer confirmed", "offer_id", offer.ID, "tenant", offer.TenantKey)
	return nil
}

// Extend resets the expiration to now plus the given duration. It requires a
// confirmed, undeleted offer but deliberately accepts an expired one:
// extension is the only path that revives an expired offer. The new
// expiration is counted from now, it does not stack on the old one.
func (s *OfferService) Extend(ctx context.Context, token string, duration int) error {
	log := slogx.FromContext(ctx)

	if !s.Durations.Valid(duration) {
		return ErrInvalidDuration
	}

	offer, err := s.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if offer.Deleted || !offer.Confirmed {
		return ErrOfferNotConfirmed
	}

	expiresAt := time.Now().UTC().Add(s.Durations.Lifetime(duration))
	offer, err = s.Store.Offers().Update(ctx, offer.ID, store.OfferPatch{ExpiresAt: &expiresAt})
	if err != nil {
		return err
	}

	s.notify(ctx, "extended", func() error {
		return s.Mailer.SendExtended(ctx, offer, s.portalName(offer.TenantKey), token)
	})
	s.recordUsage(ctx, offer.TenantKey, domain.ActionExtended)

	log.Info("offer extended", "offer_id", offer.ID, "expires_at", expiresAt)
	return nil
}

// Delete removes the offer and its owned form data together. Repeat deletion
// is rejected; expiry alone does not block deletion.
func (s *OfferService) Delete(ctx context.Context, token string) error {
	log := slogx.FromContext(ctx)

	offer, err := s.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	if offer.Deleted {
		return ErrOfferAlreadyDeleted
	}

	if err := s.Store.Offers().Delete(ctx, offer.TokenHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	}

	s.notify(ctx, "deleted", func() error {
		return s.Mailer.SendDeleted(ctx, offer, s.portalName(offer.TenantKey))
	})
	s.recordUsage(ctx, offer.TenantKey, domain.ActionDeleted)

	log.Info("offer deleted", "offer_id", offer.ID, "tenant", offer.TenantKey)
	return nil
}

// ActiveOffers returns the sanitized public listing for a tenant: confirmed,
// not deleted, not expired, each record passed through the tenant's
// enrichment hook.
func (s *OfferService) ActiveOffers(ctx context.Context, tenantKey string) ([]domain.PublicOffer, error) {
	t, ok := s.Tenants.Resolve(tenantKey)
	if !ok {
		return nil, ErrUnknownTenant
	}

	offers, err := s.Store.Offers().FindActive(ctx, tenantKey, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	public := make([]domain.PublicOffer, 0, len(offers))
	for _, o := range offers {
		public = append(public, t.Enrich(o.Public()))
	}

	s.recordUsage(ctx, tenantKey, domain.ActionListed)
	return public, nil
}

// AllOffers is the unsanitized administrative dump. No usage recording.
func (s *OfferService) AllOffers(ctx context.Context) ([]domain.Offer, error) {
	return s.Store.Offers().ListAll(ctx)
}

// notify runs a mail dispatch and logs a failure without propagating it. The
// state change is already committed when this runs; the mail is at-least-once
// relative to it, never a reason to report the operation as failed.
func (s *OfferService) notify(ctx context.Context, kind string, send func() error) {
	if err := send(); err != nil {
		slogx.FromContext(ctx).Error("notification dispatch failed",
			"kind", kind,
			slog.Any("error", err),
		)
	}
}

// recordUsage records a usage event, swallowing any error. Analytics must
// never block or fail the primary operation.
func (s *OfferService) recordUsage(ctx context.Context, tenantKey string, action domain.UsageAction) {
	ev := domain.UsageEvent{
		ID:        idx.New().String(),
		TenantKey: tenantKey,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Usage().Record(ctx, ev); err != nil {
		slogx.FromContext(ctx).Warn("usage recording failed",
			"action", string(action),
			slog.Any("error", err),
		)
	}
}

// portalName resolves the tenant display name for mails, falling back to the
// key when the tenant has been dropped from the registry since creation.
func (s *OfferService) portalName(tenantKey string) string {
	if t, ok := s.Tenants.Resolve(tenantKey); ok {
		return t.Name
	}
	return tenantKey
}
