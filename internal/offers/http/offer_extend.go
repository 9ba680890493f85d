package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/pkg/cryptox"
	"github.com/raumfrei/offerd/pkg/httpx"
	"github.com/raumfrei/offerd/pkg/offersdk"
	"github.com/raumfrei/offerd/pkg/slogx"
)

type OfferExtendHandler struct {
	OfferService *service.OfferService
}

// ServeHTTP godoc
//
//	@Summary		Extend Offer Endpoint
//	@Description	Reset a confirmed offer's expiration to now plus the given duration
//	@Description	Works on expired offers too; extension is the only way to revive one
//	@Tags			Offers
//	@Accept			json
//	@Produce		json
//	@Param			token	path	string						true	"Secret offer token"
//	@Param			request	body	offersdk.ExtendOfferRequest	true	"New duration"
//	@Success		204		"offer extended"
//	@Failure		400		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		422		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Router			/v1/offers/{token}/extend [post].
func (h *OfferExtendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")
	if !cryptox.ValidTokenFormat(token) {
		writeInvalidToken(w)
		return
	}

	var req offersdk.ExtendOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Request body is not valid JSON",
		})
		return
	}

	if err := h.OfferService.Extend(ctx, token, req.Duration); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDuration):
			httpx.WriteJSON(w, http.StatusUnprocessableEntity, offersdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "duration must be one of 3, 7, 14 or 30",
			})
		case errors.Is(err, service.ErrOfferNotFound):
			writeOfferNotFound(w)
		case errors.Is(err, service.ErrOfferNotConfirmed):
			httpx.WriteJSON(w, http.StatusBadRequest, offersdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Only confirmed, undeleted offers can be extended",
			})
		default:
			log.Error("failed to extend offer", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, offersdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to extend offer",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
