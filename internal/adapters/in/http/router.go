// internal/adapters/in/http/router.go
package httpin

import (
	"log"
	"net/http"

	"agrimarket/internal/adapters/in/http/middleware"
)

// RouterDeps is the handler set injected from the DI container.
type RouterDeps struct {
	Auth     http.Handler
	Listing  http.Handler
	Cart     http.Handler
	Order    http.Handler
	Profile  http.Handler
	Insights http.Handler

	// SessionAuth guards the authenticated groups; the catalog group gets
	// its Optional variant (public reads, farmer writes).
	SessionAuth *middleware.SessionAuth
}

// handleSafe registers pattern with h. A nil handler is logged and replaced
// with NotFoundHandler so a partial container never crashes the boot.
func handleSafe(mux *http.ServeMux, pattern string, h http.Handler, name string) {
	if h == nil {
		log.Printf("[router] WARN: nil handler: %s pattern=%s (registering NotFoundHandler)", name, pattern)
		h = http.NotFoundHandler()
	}
	mux.Handle(pattern, h)
}

// New builds the API mux. Auth wrapping happens here so handlers stay
// ignorant of middleware order.
func New(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	required := func(h http.Handler) http.Handler {
		if deps.SessionAuth == nil || h == nil {
			return h
		}
		return deps.SessionAuth.Handler(h)
	}
	optional := func(h http.Handler) http.Handler {
		if deps.SessionAuth == nil || h == nil {
			return h
		}
		return deps.SessionAuth.Optional(h)
	}

	// accounts
	handleSafe(mux, "/api/register/", deps.Auth, "Auth")
	handleSafe(mux, "/api/login", deps.Auth, "Auth")
	handleSafe(mux, "/api/logout", deps.Auth, "Auth")

	// crop catalog (public reads, farmer writes)
	handleSafe(mux, "/api/crops", optional(deps.Listing), "Listing")
	handleSafe(mux, "/api/crops/", optional(deps.Listing), "Listing")

	// cart
	handleSafe(mux, "/api/cart", required(deps.Cart), "Cart")
	handleSafe(mux, "/api/cart/", required(deps.Cart), "Cart")

	// orders
	handleSafe(mux, "/api/orders", required(deps.Order), "Order")
	handleSafe(mux, "/api/orders/", required(deps.Order), "Order")

	// profiles
	handleSafe(mux, "/api/buyer/", required(deps.Profile), "Profile(buyer)")
	handleSafe(mux, "/api/farmer/", required(deps.Profile), "Profile(farmer)")

	// dashboard insights
	handleSafe(mux, "/api/insights/", deps.Insights, "Insights")

	// healthz is registered by main so it exists before the container is up

	return mux
}
