package domain

import (
	"encoding/json"
	"time"
)

// Offer is the time-limited resource whose lifecycle this service manages.
// It is addressable from the outside only through the secret token issued at
// creation; TokenHash is the one-way fingerprint of that token and the only
// token representation that is ever persisted.
type Offer struct {
	ID        string
	TenantKey string
	Email     string
	TokenHash string

	// FormData is the tenant-schema-defined payload. It is owned exclusively
	// by the offer: deleting the offer deletes the form data with it. The
	// sqlite backend keeps it in a separate forms row, the flat-file backend
	// inlines it into the snapshot.
	FormData json.RawMessage

	// Confirmed flips to true exactly once; no transition reverses it.
	Confirmed bool

	// Deleted is a tombstone used by the flat-file backend only. The sqlite
	// backend represents deletion as row removal and never sets this.
	Deleted bool

	CreatedAt time.Time

	// ExpiresAt is always >= CreatedAt. Extension advances it, nothing ever
	// reduces it below now at the time of the extension.
	ExpiresAt time.Time
}

// IsExpired is a pure function of now vs ExpiresAt. Expiry is never cached or
// persisted as a derived flag.
func (o Offer) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Active reports whether the offer belongs in public listings: confirmed, not
// deleted, not expired.
func (o Offer) Active(now time.Time) bool {
	return o.Confirmed && !o.Deleted && !o.IsExpired(now)
}

// PublicOffer is the sanitized projection exposed by active listings. The
// token hash, confirmation flag, expiration date, and tenant key are all
// stripped; Additional carries computed, non-persisted fields attached by the
// tenant's enrichment hook.
type PublicOffer struct {
	Email      string          `json:"email"`
	CreatedAt  time.Time       `json:"createdAt"`
	FormData   json.RawMessage `json:"formData"`
	Additional map[string]any  `json:"additional,omitempty"`
}

// Public returns the sanitized projection of the offer.
func (o Offer) Public() PublicOffer {
	return PublicOffer{
		Email:     o.Email,
		CreatedAt: o.CreatedAt,
		FormData:  o.FormData,
	}
}
