package http

import (
	"errors"
	"net/http"

	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/pkg/httpx"
	"github.com/raumfrei/offerd/pkg/offersdk"
	"github.com/raumfrei/offerd/pkg/slogx"
)

type ActiveOffersHandler struct {
	OfferService *service.OfferService
}

// ServeHTTP godoc
//
//	@Summary		List Active Offers Endpoint
//	@Description	Return the sanitized active offers of a tenant: confirmed, not deleted, not expired
//	@Description	Token hashes, confirmation state, and expiration dates are never included
//	@Tags			Offers
//	@Produce		json
//	@Param			tenant	path		string	true	"Tenant key"
//	@Success		200		{array}		offersdk.PublicOffer	"active offers"
//	@Failure		404		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	offersdk.ErrorResponse	"error, error_description"
//	@Router			/v1/tenants/{tenant}/offers [get].
func (h *ActiveOffersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	tenantKey := r.PathValue("tenant")

	offers, err := h.OfferService.ActiveOffers(ctx, tenantKey)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownTenant):
			httpx.WriteJSON(w, http.StatusNotFound, offersdk.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Unknown tenant",
			})
		default:
			log.Error("failed to list active offers", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, offersdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to list offers",
			})
		}
		return
	}

	response := make([]offersdk.PublicOffer, 0, len(offers))
	for _, o := range offers {
		response = append(response, offersdk.PublicOffer{
			Email:      o.Email,
			CreatedAt:  o.CreatedAt,
			FormData:   o.FormData,
			Additional: o.Additional,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, response)
}
