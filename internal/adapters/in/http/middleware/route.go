// internal/adapters/in/http/middleware/route.go
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern keeps metric label cardinality bounded: /availableCart/{storeName}
// rather than every store name.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
