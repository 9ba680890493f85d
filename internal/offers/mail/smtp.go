package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/raumfrei/offerd/internal/offers/domain"
)

// SMTPConfig configures the SMTP transport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// BaseURL is the public frontend address embedded in action links
	BaseURL string
}

// SMTPDispatcher sends notification mails over SMTP.
type SMTPDispatcher struct {
	client  *gomail.Client
	from    string
	baseURL string
}

// NewSMTPDispatcher builds the SMTP client. The connection is dialed per
// send, not held open; offer traffic is far too low to warrant pooling.
func NewSMTPDispatcher(cfg SMTPConfig) (*SMTPDispatcher, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: create smtp client: %w", err)
	}

	return &SMTPDispatcher{
		client:  client,
		from:    cfg.From,
		baseURL: cfg.BaseURL,
	}, nil
}

func (d *SMTPDispatcher) SendConfirmationRequest(ctx context.Context, o domain.Offer, portalName, token string) error {
	html, err := render("request_confirmation.html", mailData{
		PortalName: portalName,
		ConfirmURL: actionURL(d.baseURL, token, "confirm"),
	})
	if err != nil {
		return err
	}
	return d.send(ctx, o.Email, "Please confirm your offer", html)
}

func (d *SMTPDispatcher) SendConfirmed(ctx context.Context, o domain.Offer, portalName, token string) error {
	html, err := render("confirmed.html", mailData{
		PortalName:     portalName,
		ExpirationDate: formatExpiration(o.ExpiresAt),
		ExtendURL:      actionURL(d.baseURL, token, "extend"),
		DeleteURL:      actionURL(d.baseURL, token, "delete"),
	})
	if err != nil {
		return err
	}
	return d.send(ctx, o.Email, "Your offer is now live", html)
}

func (d *SMTPDispatcher) SendExtended(ctx context.Context, o domain.Offer, portalName, token string) error {
	html, err := render("extended.html", mailData{
		PortalName:     portalName,
		ExpirationDate: formatExpiration(o.ExpiresAt),
		ExtendURL:      actionURL(d.baseURL, token, "extend"),
		DeleteURL:      actionURL(d.baseURL, token, "delete"),
	})
	if err != nil {
		return err
	}
	return d.send(ctx, o.Email, "Your offer has been extended", html)
}

func (d *SMTPDispatcher) SendDeleted(ctx context.Context, o domain.Offer, portalName string) error {
	html, err := render("deleted.html", mailData{
		PortalName: portalName,
	})
	if err != nil {
		return err
	}
	return d.send(ctx, o.Email, "Your offer has been deleted", html)
}

func (d *SMTPDispatcher) send(ctx context.Context, to, subject, html string) error {
	msg := gomail.NewMsg()
	if err := msg.From(d.from); err != nil {
		return fmt.Errorf("mail: invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, html)

	if err := d.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}
	return nil
}
