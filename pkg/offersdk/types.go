// Package offersdk holds the wire types of the offer service API plus a small
// Go client. Handlers, tests, and external consumers share these definitions
// so the JSON contract lives in one place.
package offersdk

import (
	"encoding/json"
	"time"
)

// ErrorResponse is the standard error payload of every non-2xx response.
type ErrorResponse struct {
	// Error is a stable machine-readable code (e.g. "invalid_request")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// Error codes used across the API.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeOfferGone      = "offer_gone"
	ErrorCodeServerError    = "server_error"
)

// CreateOfferRequest is the body of PUT /v1/tenants/{tenant}/offers.
type CreateOfferRequest struct {
	// Email receives the confirmation mail and all lifecycle notifications
	Email string `json:"email"`

	// Duration is the offer lifetime in duration units (one of 3, 7, 14, 30)
	Duration int `json:"duration"`

	// FormData is the tenant-schema-defined payload, validated server-side
	FormData json.RawMessage `json:"formData"`

	// AgreedToDataProtection must be true; offers store personal data
	AgreedToDataProtection bool `json:"agreedToDataProtection"`
}

// CreateOfferResponse carries the secret token. This is the only place the
// raw token ever appears in a response; losing it makes the offer reachable
// only administratively.
type CreateOfferResponse struct {
	Token string `json:"token"`
}

// ExtendOfferRequest is the body of POST /v1/offers/{token}/extend.
type ExtendOfferRequest struct {
	// Duration is the new lifetime in duration units, counted from now
	Duration int `json:"duration"`
}

// PublicOffer is the sanitized listing projection. It never carries the token
// hash, the confirmation flag, the expiration date, or the tenant key.
type PublicOffer struct {
	Email      string          `json:"email"`
	CreatedAt  time.Time       `json:"createdAt"`
	FormData   json.RawMessage `json:"formData"`
	Additional map[string]any  `json:"additional,omitempty"`
}

// AdminOffer is the unsanitized administrative projection returned by
// GET /v1/offers.
type AdminOffer struct {
	ID        string          `json:"id"`
	TenantKey string          `json:"tenantKey"`
	Email     string          `json:"email"`
	TokenHash string          `json:"hashedToken"`
	FormData  json.RawMessage `json:"formData"`
	Confirmed bool            `json:"confirmed"`
	Deleted   bool            `json:"deleted"`
	CreatedAt time.Time       `json:"createdAt"`
	ExpiresAt time.Time       `json:"expirationDate"`
}

// HealthResponse is returned by the /livez and /readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
}
