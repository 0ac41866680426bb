// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/azaky/cartserver/internal/adapters/in/http/handlers"
	"github.com/azaky/cartserver/internal/adapters/in/http/middleware"
	cartdom "github.com/azaky/cartserver/internal/domain/cart"
	catalogdom "github.com/azaky/cartserver/internal/domain/catalog"
	docsdom "github.com/azaky/cartserver/internal/domain/docs"
	"github.com/azaky/cartserver/internal/infra/metrics"
)

// RouterDeps collects everything the HTTP layer needs, injected from the container.
type RouterDeps struct {
	Actuator  handlers.StateSetter
	CartState cartdom.Repository
	Catalog   *catalogdom.Catalog
	Docs      docsdom.Store
	Metrics   *metrics.Metrics
	Logger    *zap.Logger

	// RequireAuth なら /cart/* を Firebase ID token で保護する
	RequireAuth   bool
	TokenVerifier middleware.TokenVerifier
}

// NewRouter sets up HTTP routing for all endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	httpLog := log.Named("http")

	r := chi.NewRouter()
	r.Use(
		middleware.CORS(),
		middleware.Recover(httpLog),
		middleware.Metrics(deps.Metrics),
		middleware.JSONBody,
		middleware.RequestLogger(httpLog),
	)

	// Health check (always on)
	r.Get("/", handlers.Root)
	r.Get("/healthz", handlers.Healthz)
	r.Get("/https", handlers.HTTPSOnly)

	cart := handlers.NewCartHandler(deps.Actuator, deps.CartState, httpLog)
	r.Group(func(r chi.Router) {
		if deps.RequireAuth {
			r.Use(middleware.FirebaseAuth(deps.TokenVerifier, httpLog))
		}
		r.Post("/cart/open", cart.Open)
		r.Post("/cart/close", cart.Close)
		r.Get("/cart", cart.Get)
	})

	catalog := handlers.NewCatalogHandler(deps.Catalog)
	r.Get("/availableCart", catalog.ListStores)
	r.Get("/availableCart/{storeName}", catalog.GetStore)
	r.Get("/items", catalog.ListItems)

	if deps.Docs != nil {
		docs := handlers.NewDocsHandler(deps.Docs, httpLog)
		r.Handle("/docs", http.RedirectHandler("/docs/", http.StatusMovedPermanently))
		r.Handle("/docs/*", docs)
	}

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	return r
}
