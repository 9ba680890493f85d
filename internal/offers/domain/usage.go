package domain

import "time"

// UsageAction tags what happened to an offer for analytics purposes.
type UsageAction string

const (
	ActionCreated   UsageAction = "created"
	ActionConfirmed UsageAction = "confirmed"
	ActionExtended  UsageAction = "extended"
	ActionDeleted   UsageAction = "deleted"
	ActionListed    UsageAction = "listed"
)

// UsageEvent is a write-only, best-effort analytics record. Recording it must
// never block or fail the operation it describes, and no read path is part of
// the service contract.
type UsageEvent struct {
	ID        string
	TenantKey string
	Action    UsageAction
	CreatedAt time.Time
}
