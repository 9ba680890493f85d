package http

import (
	"net/http"

	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/pkg/httpx"
	"github.com/raumfrei/offerd/pkg/offersdk"
	"github.com/raumfrei/offerd/pkg/slogx"
)

type AllOffersHandler struct {
	OfferService *service.OfferService
}

// ServeHTTP godoc
//
//	@Summary		List All Offers Endpoint
//	@Description	Administrative dump of every stored offer, including unconfirmed, expired, and token hashes
//	@Description	Raw tokens are never stored and therefore never appear here either
//	@Tags			Admin
//	@Produce		json
//	@Security		AdminKeyAuth
//	@Success		200	{array}		offersdk.AdminOffer		"all offers"
//	@Failure		401	{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	offersdk.ErrorResponse	"error, error_description"
//	@Router			/v1/offers [get].
func (h *AllOffersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	offers, err := h.OfferService.AllOffers(ctx)
	if err != nil {
		log.Error("failed to list all offers", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, offersdk.ErrorResponse{
			Error:            "server_error",
			ErrorDescription: "Failed to list offers",
		})
		return
	}

	response := make([]offersdk.AdminOffer, 0, len(offers))
	for _, o := range offers {
		response = append(response, offersdk.AdminOffer{
			ID:        o.ID,
			TenantKey: o.TenantKey,
			Email:     o.Email,
			TokenHash: o.TokenHash,
			FormData:  o.FormData,
			Confirmed: o.Confirmed,
			Deleted:   o.Deleted,
			CreatedAt: o.CreatedAt,
			ExpiresAt: o.ExpiresAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
