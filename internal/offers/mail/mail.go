// Package mail renders and sends the lifecycle notification mails. Dispatch
// is best effort by contract: the lifecycle manager logs failures and never
// lets them fail the operation that triggered the mail.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/raumfrei/offerd/internal/offers/domain"
)

// Dispatcher sends the four lifecycle notification kinds. portalName is the
// tenant's display name; token is the raw secret and appears only inside the
// action links of the rendered body.
type Dispatcher interface {
	SendConfirmationRequest(ctx context.Context, o domain.Offer, portalName, token string) error
	SendConfirmed(ctx context.Context, o domain.Offer, portalName, token string) error
	SendExtended(ctx context.Context, o domain.Offer, portalName, token string) error
	SendDeleted(ctx context.Context, o domain.Offer, portalName string) error
}

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// mailData is the render context shared by all templates.
type mailData struct {
	PortalName     string
	ExpirationDate string
	ConfirmURL     string
	ExtendURL      string
	DeleteURL      string
}

func render(name string, data mailData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render mail template %s: %w", name, err)
	}
	return buf.String(), nil
}

// actionURL builds the caller-facing lifecycle link for a token. baseURL is
// the public address of the portal frontend handling these links.
func actionURL(baseURL, token, action string) string {
	return fmt.Sprintf("%s/offer/%s/%s", baseURL, url.PathEscape(token), action)
}

func formatExpiration(t time.Time) string {
	return t.Format("02 Jan 2006")
}
