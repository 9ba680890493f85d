package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/raumfrei/offerd/internal/offers/service"
	"github.com/raumfrei/offerd/internal/offers/store"
	"github.com/raumfrei/offerd/pkg/httpx"
	"github.com/raumfrei/offerd/pkg/slogx"

	_ "github.com/raumfrei/offerd/api/offers" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store        store.Store
	adminKeyHash string

	OfferService *service.OfferService
}

func NewRouter(
	buildVersion string,
	adminKeyHash string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		adminKeyHash: adminKeyHash,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOffers()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Offer Service API
//	@version		0.1.0
//	@description	Lifecycle service for time-limited, token-addressed offers.
//	@description
//	@description				An offer is created unconfirmed and must be confirmed through the secret
//	@description				token sent by mail before it appears in public listings. The token is the
//	@description				only credential; it is returned exactly once at creation.
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	AdminKeyAuth
//	@in							header
//	@name						Authorization
//	@description				Administrative API key. Format: "Bearer {key}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOffers() {
	createHandler := &OfferCreateHandler{OfferService: r.OfferService}
	confirmHandler := &OfferConfirmHandler{OfferService: r.OfferService}
	extendHandler := &OfferExtendHandler{OfferService: r.OfferService}
	deleteHandler := &OfferDeleteHandler{OfferService: r.OfferService}
	listHandler := &ActiveOffersHandler{OfferService: r.OfferService}

	// PUT /tenants/{tenant}/offers - strict rate limit (each create sends a mail)
	r.Mux.Handle("PUT /v1/tenants/{tenant}/offers",
		httpx.Chain(createHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /tenants/{tenant}/offers - public listing, lenient rate limit
	r.Mux.Handle("GET /v1/tenants/{tenant}/offers",
		httpx.Chain(listHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// Token-bearing lifecycle transitions - moderate rate limit to slow
	// token guessing without locking out legitimate retries
	r.Mux.Handle("POST /v1/offers/{token}/confirm",
		httpx.Chain(confirmHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/offers/{token}/extend",
		httpx.Chain(extendHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/offers/{token}",
		httpx.Chain(deleteHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AllOffersHandler{OfferService: r.OfferService}

	// GET /offers - full dump, key-protected, moderate rate limit.
	// Responds 404 when no admin key hash is configured.
	r.Mux.Handle("GET /v1/offers",
		httpx.Chain(h,
			httpx.AdminAuth(r.adminKeyHash),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
