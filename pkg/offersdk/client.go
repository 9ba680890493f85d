package offersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin client for the offer service API. It covers the public
// surface only; administrative calls take the admin key explicitly.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("offersdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// CreateOffer submits a new offer and returns the secret token.
func (c *Client) CreateOffer(ctx context.Context, tenant string, req CreateOfferRequest) (string, error) {
	var resp CreateOfferResponse
	path := "/v1/tenants/" + url.PathEscape(tenant) + "/offers"
	if err := c.do(ctx, http.MethodPut, path, req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ConfirmOffer confirms the offer identified by token.
func (c *Client) ConfirmOffer(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/v1/offers/"+url.PathEscape(token)+"/confirm", nil, nil)
}

// ExtendOffer resets the offer's expiration to now plus duration units.
func (c *Client) ExtendOffer(ctx context.Context, token string, duration int) error {
	req := ExtendOfferRequest{Duration: duration}
	return c.do(ctx, http.MethodPost, "/v1/offers/"+url.PathEscape(token)+"/extend", req, nil)
}

// DeleteOffer deletes the offer identified by token.
func (c *Client) DeleteOffer(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/v1/offers/"+url.PathEscape(token), nil, nil)
}

// ActiveOffers returns the sanitized active offers of a tenant.
func (c *Client) ActiveOffers(ctx context.Context, tenant string) ([]PublicOffer, error) {
	var offers []PublicOffer
	path := "/v1/tenants/" + url.PathEscape(tenant) + "/offers"
	if err := c.do(ctx, http.MethodGet, path, nil, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// AllOffers returns the unsanitized administrative dump. adminKey is the raw
// pre-shared key configured for the deployment.
func (c *Client) AllOffers(ctx context.Context, adminKey string) ([]AdminOffer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v1/offers", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var offers []AdminOffer
	if err := decodeResponse(resp, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Code = body.Error
			apiErr.Description = body.ErrorDescription
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
