package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/raumfrei/offerd/internal/offers/mail"
	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/internal/offers/store/drivers/flatfile"
	"github.com/raumfrei/offerd/internal/offers/tenant"
	"github.com/raumfrei/offerd/pkg/cryptox"
	"github.com/raumfrei/offerd/pkg/offersdk"
	"github.com/stretchr/testify/require"
)

const testTenant = "neuburgschrobenhausenwohnraum"

func newTestServer(t *testing.T, adminKeyHash string) *httptest.Server {
	t.Helper()

	st, err := flatfile.NewStore(filepath.Join(t.TempDir(), "offers.json"))
	require.NoError(t, err)

	registry, err := tenant.NewRegistry(tenant.DefaultConfigs(), tenant.DefaultHooks())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter("test", adminKeyHash, st, logger)
	router.OfferService = &service.OfferService{
		Store:   st,
		Tenants: registry,
		Mailer:  &mail.LogDispatcher{Logger: logger},
		Durations: service.DurationPolicy{
			Allowed: []int{3, 7, 14, 30},
			Unit:    time.Minute,
		},
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func createRequest() offersdk.CreateOfferRequest {
	return offersdk.CreateOfferRequest{
		Email:    "owner@example.com",
		Duration: 7,
		FormData: json.RawMessage(`{
			"landlord": {"name": "M. Muster", "phone": "0841 1234"},
			"accommodation": {"totalArea": 54.5, "rooms": 2},
			"costs": {"baseRent": 600, "runningCosts": 120}
		}`),
		AgreedToDataProtection: true,
	}
}

func TestOfferLifecycle(t *testing.T) {
	srv := newTestServer(t, "")
	client := offersdk.NewClient(srv.URL)
	ctx := context.Background()

	// Create
	token, err := client.CreateOffer(ctx, testTenant, createRequest())
	require.NoError(t, err)
	require.True(t, cryptox.ValidTokenFormat(token))

	// Unconfirmed offers are not listed
	offers, err := client.ActiveOffers(ctx, testTenant)
	require.NoError(t, err)
	require.Empty(t, offers)

	// Confirm, then the offer appears enriched
	require.NoError(t, client.ConfirmOffer(ctx, token))

	offers, err = client.ActiveOffers(ctx, testTenant)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, "owner@example.com", offers[0].Email)
	require.Equal(t, 720.0, offers[0].Additional["totalRent"])

	// Listings never leak the token or its fingerprint
	raw, err := json.Marshal(offers[0])
	require.NoError(t, err)
	require.NotContains(t, string(raw), token)
	require.NotContains(t, string(raw), cryptox.FingerprintToken(token))

	// Confirm again: no-op, still succeeds
	require.NoError(t, client.ConfirmOffer(ctx, token))

	// Extend
	require.NoError(t, client.ExtendOffer(ctx, token, 30))

	// Delete, then the listing is empty and the token dead
	require.NoError(t, client.DeleteOffer(ctx, token))

	offers, err = client.ActiveOffers(ctx, testTenant)
	require.NoError(t, err)
	require.Empty(t, offers)

	err = client.ConfirmOffer(ctx, token)
	requireAPIError(t, err, http.StatusGone, "offer_gone")

	err = client.DeleteOffer(ctx, token)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_request")
}

func TestCreateOffer_Validation(t *testing.T) {
	srv := newTestServer(t, "")
	client := offersdk.NewClient(srv.URL)
	ctx := context.Background()

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := client.CreateOffer(ctx, "nosuchtenant", createRequest())
		requireAPIError(t, err, http.StatusNotFound, "not_found")
	})

	t.Run("invalid email", func(t *testing.T) {
		req := createRequest()
		req.Email = "not an address"
		_, err := client.CreateOffer(ctx, testTenant, req)
		requireAPIError(t, err, http.StatusUnprocessableEntity, "invalid_request")
	})

	t.Run("data protection not accepted", func(t *testing.T) {
		req := createRequest()
		req.AgreedToDataProtection = false
		_, err := client.CreateOffer(ctx, testTenant, req)
		requireAPIError(t, err, http.StatusUnprocessableEntity, "invalid_request")
	})

	t.Run("invalid duration", func(t *testing.T) {
		req := createRequest()
		req.Duration = 5
		_, err := client.CreateOffer(ctx, testTenant, req)
		requireAPIError(t, err, http.StatusUnprocessableEntity, "invalid_request")
	})

	t.Run("form data failing schema", func(t *testing.T) {
		req := createRequest()
		req.FormData = json.RawMessage(`{"rooms": 2}`)
		_, err := client.CreateOffer(ctx, testTenant, req)
		requireAPIError(t, err, http.StatusUnprocessableEntity, "invalid_request")
	})
}

func TestTokenHandling(t *testing.T) {
	srv := newTestServer(t, "")
	client := offersdk.NewClient(srv.URL)
	ctx := context.Background()

	t.Run("malformed token is rejected before lookup", func(t *testing.T) {
		err := client.ConfirmOffer(ctx, "not-a-token")
		requireAPIError(t, err, http.StatusUnprocessableEntity, "invalid_request")
	})

	t.Run("wrong token yields not found", func(t *testing.T) {
		err := client.ConfirmOffer(ctx, cryptox.MustGenerateToken())
		requireAPIError(t, err, http.StatusNotFound, "not_found")

		err = client.ExtendOffer(ctx, cryptox.MustGenerateToken(), 7)
		requireAPIError(t, err, http.StatusNotFound, "not_found")

		err = client.DeleteOffer(ctx, cryptox.MustGenerateToken())
		requireAPIError(t, err, http.StatusNotFound, "not_found")
	})
}

func TestExtend_RequiresConfirmation(t *testing.T) {
	srv := newTestServer(t, "")
	client := offersdk.NewClient(srv.URL)
	ctx := context.Background()

	token, err := client.CreateOffer(ctx, testTenant, createRequest())
	require.NoError(t, err)

	err = client.ExtendOffer(ctx, token, 7)
	requireAPIError(t, err, http.StatusBadRequest, "invalid_request")
}

func TestAdminEndpoint(t *testing.T) {
	adminKey := "e2e-admin-key"
	hash, err := cryptox.HashKey(adminKey)
	require.NoError(t, err)

	srv := newTestServer(t, hash)
	client := offersdk.NewClient(srv.URL)
	ctx := context.Background()

	token, err := client.CreateOffer(ctx, testTenant, createRequest())
	require.NoError(t, err)

	t.Run("wrong key is rejected", func(t *testing.T) {
		_, err := client.AllOffers(ctx, "wrong key")
		requireAPIError(t, err, http.StatusUnauthorized, "invalid_token")
	})

	t.Run("valid key gets the unsanitized dump", func(t *testing.T) {
		offers, err := client.AllOffers(ctx, adminKey)
		require.NoError(t, err)
		require.Len(t, offers, 1)
		require.Equal(t, cryptox.FingerprintToken(token), offers[0].TokenHash)
		require.False(t, offers[0].Confirmed)
	})
}

func TestAdminEndpoint_Unconfigured(t *testing.T) {
	srv := newTestServer(t, "")
	client := offersdk.NewClient(srv.URL)

	_, err := client.AllOffers(context.Background(), "any key")
	requireAPIError(t, err, http.StatusNotFound, "not_found")
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, "")

	for _, path := range []string{"/livez", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)

		var health offersdk.HealthResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "ok", health.Status)
	}
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *offersdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
