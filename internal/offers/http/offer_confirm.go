package http

import (
	"errors"
	"net/http"

	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/pkg/cryptox"
	"github.com/raumfrei/offerd/pkg/httpx"
	"github.com/raumfrei/offerd/pkg/offersdk"
	"github.com/raumfrei/offerd/pkg/slogx"
)

type OfferConfirmHandler struct {
	OfferService *service.OfferService
}

// ServeHTTP godoc
//
//	@Summary		Confirm Offer Endpoint
//	@Description	Confirm an unconfirmed offer using its secret token, making it eligible for public listing
//	@Description	Confirming an already-confirmed offer succeeds without any effect
//	@Tags			Offers
//	@Produce		json
//	@Param			token	path	string	true	"Secret offer token"
//	@Success		204		"offer confirmed"
//	@Failure		404		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		422		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Router			/v1/offers/{token}/confirm [post].
func (h *OfferConfirmHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")
	if !cryptox.ValidTokenFormat(token) {
		writeInvalidToken(w)
		return
	}

	if err := h.OfferService.Confirm(ctx, token); err != nil {
		switch {
		case errors.Is(err, service.ErrOfferNotFound):
			writeOfferNotFound(w)
		case errors.Is(err, service.ErrOfferGone):
			httpx.WriteJSON(w, http.StatusGone, offersdk.ErrorResponse{
				Error:            "offer_gone",
				ErrorDescription: "Offer is expired or deleted and can no longer be confirmed",
			})
		default:
			log.Error("failed to confirm offer", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, offersdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to confirm offer",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeInvalidToken rejects malformed tokens before any lookup happens.
func writeInvalidToken(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
		Error:            "invalid_request",
		ErrorDescription: "token must be a 32 character hexadecimal string",
	})
}

func writeOfferNotFound(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusNotFound, offersdk.ErrorResponse{
		Error:            "not_found",
		ErrorDescription: "No offer for this token",
	})
}
