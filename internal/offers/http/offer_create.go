package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/pkg/httpx"
	"github.com/raumfrei/offerd/pkg/offersdk"
	"github.com/raumfrei/offerd/pkg/slogx"
)

// maxCreateBodyBytes caps submission bodies; tenant forms are small.
const maxCreateBodyBytes = 64 << 10

type OfferCreateHandler struct {
	OfferService *service.OfferService
}

// ServeHTTP godoc
//
//	@Summary		Create Offer Endpoint
//	@Description	Create a new, unconfirmed offer for a tenant and send the confirmation mail
//	@Description	The secret token in the response is shown exactly once and is the only way to manage the offer
//	@Tags			Offers
//	@Accept			json
//	@Produce		json
//	@Param			tenant	path		string						true	"Tenant key"
//	@Param			request	body		offersdk.CreateOfferRequest	true	"Offer submission"
//	@Success		201		{object}	offersdk.CreateOfferResponse	"token"
//	@Failure		404		{object}	offersdk.ErrorResponse			"error, error_description"
//	@Failure		422		{object}	offersdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	offersdk.ErrorResponse			"error, error_description"
//	@Router			/v1/tenants/{tenant}/offers [put].
func (h *OfferCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	tenantKey := r.PathValue("tenant")

	// Parse and validate the submission body
	var req offersdk.CreateOfferRequest
	body := http.MaxBytesReader(w, r.Body, maxCreateBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body is not valid JSON",
		})
		return
	}

	if !validEmail(req.Email) {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "email is missing or not a valid address",
		})
		return
	}
	if !req.AgreedToDataProtection {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "agreedToDataProtection must be accepted",
		})
		return
	}
	if len(req.FormData) == 0 {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "formData is required",
		})
		return
	}

	token, err := h.OfferService.Create(ctx, tenantKey, req.Email, req.FormData, req.Duration)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTenant):
			httpx.WriteJSON(w, http.StatusNotFound, offersdk.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Unknown tenant",
			})
		case errors.Is(err, service.ErrInvalidDuration):
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "duration must be one of 3, 7, 14 or 30",
			})
		case errors.Is(err, service.ErrInvalidFormData):
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: err.Error(),
			})
		default:
			log.Error("failed to create offer", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, offersdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create offer",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, offersdk.CreateOfferResponse{
		Token: token,
	})
}

// validEmail accepts a bare RFC 5322 address without a display name.
func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}
