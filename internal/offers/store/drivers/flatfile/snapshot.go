package flatfile

import (
	"encoding/json"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
)

// offerRecord is the on-disk shape of one offer. The snapshot file is a
// single JSON array of these records, nested form data inline, and must
// round-trip without losing a field.
type offerRecord struct {
	ID        string          `json:"id"`
	TenantKey string          `json:"tenantKey"`
	Email     string          `json:"email"`
	TokenHash string          `json:"hashedToken"`
	FormData  json.RawMessage `json:"formData,omitempty"`
	Confirmed bool            `json:"confirmed"`
	Deleted   bool            `json:"deleted"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expirationDate"`
}

func encodeSnapshot(offers []domain.Offer) ([]byte, error) {
	records := make([]offerRecord, 0, len(offers))
	for _, o := range offers {
		records = append(records, offerRecord{
			ID:        o.ID,
			TenantKey: o.TenantKey,
			Email:     o.Email,
			TokenHash: o.TokenHash,
			FormData:  o.FormData,
			Confirmed: o.Confirmed,
			Deleted:   o.Deleted,
			CreatedAt: o.CreatedAt,
			ExpiresAt: o.ExpiresAt,
		})
	}
	return json.MarshalIndent(records, "", "  ")
}

func decodeSnapshot(raw []byte) ([]domain.Offer, error) {
	var records []offerRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	offers := make([]domain.Offer, 0, len(records))
	for _, rec := range records {
		offers = append(offers, domain.Offer{
			ID:        rec.ID,
			TenantKey: rec.TenantKey,
			Email:     rec.Email,
			TokenHash: rec.TokenHash,
			FormData:  rec.FormData,
			Confirmed: rec.Confirmed,
			Deleted:   rec.Deleted,
			CreatedAt: rec.CreatedAt,
			ExpiresAt: rec.ExpiresAt,
		})
	}
	return offers, nil
}
