package mail

import (
	"context"
	"log/slog"

	"github.com/raumfrei/offerd/internal/offers/domain"
)

// LogDispatcher logs instead of sending. Used in dev environments and
// whenever SMTP is not configured. The token itself is never logged, only
// the fact that a mail would have gone out.
type LogDispatcher struct {
	Logger *slog.Logger
}

func (d *LogDispatcher) log(kind string, o domain.Offer, portalName string) error {
	d.Logger.Info("mail dispatch skipped (log dispatcher)",
		"kind", kind,
		"to", o.Email,
		"portal", portalName,
	)
	return nil
}

func (d *LogDispatcher) SendConfirmationRequest(ctx context.Context, o domain.Offer, portalName, token string) error {
	return d.log("request_confirmation", o, portalName)
}

func (d *LogDispatcher) SendConfirmed(ctx context.Context, o domain.Offer, portalName, token string) error {
	return d.log("confirmed", o, portalName)
}

func (d *LogDispatcher) SendExtended(ctx context.Context, o domain.Offer, portalName, token string) error {
	return d.log("extended", o, portalName)
}

func (d *LogDispatcher) SendDeleted(ctx context.Context, o domain.Offer, portalName string) error {
	return d.log("deleted", o, portalName)
}
