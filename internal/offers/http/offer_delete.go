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

type OfferDeleteHandler struct {
	OfferService *service.OfferService
}

// ServeHTTP godoc
//
//	@Summary		Delete Offer Endpoint
//	@Description	Delete the offer identified by its secret token along with its form data
//	@Description	Expired offers can still be deleted; already-deleted ones cannot
//	@Tags			Offers
//	@Produce		json
//	@Param			token	path	string	true	"Secret offer token"
//	@Success		204		"offer deleted"
//	@Failure		400		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		422		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Router			/v1/offers/{token} [delete].
func (h *OfferDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.PathValue("token")
	if !cryptox.ValidTokenFormat(token) {
		writeInvalidToken(w)
		return
	}

	if err := h.OfferService.Delete(ctx, token); err != nil {
		switch {
		case errors.Is(err, service.ErrOfferNotFound):
			writeOfferNotFound(w)
		case errors.Is(err, service.ErrOfferAlreadyDeleted):
			httpx.WriteJSON(w, http.StatusBadRequest, offersdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Offer is already deleted",
			})
		default:
			log.Error("failed to delete offer", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, offersdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to delete offer",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
