package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/gs-storefront/api/controllers"
	"github.com/angelmondragon/gs-storefront/api/controllers/collections"
	"github.com/angelmondragon/gs-storefront/api/middleware"
	"github.com/angelmondragon/gs-storefront/internal/gateway"
	"github.com/angelmondragon/gs-storefront/pkg/config"
	"github.com/angelmondragon/gs-storefront/pkg/logger"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

// NewStorefrontRouter serves one storefront context's local API.
func NewStorefrontRouter(
	cfg *config.Config,
	logg *logger.Logger,
	svc controllers.Storefront,
	contextID string,
	gatherer prometheus.Gatherer,
	deps map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.ContextID(contextID),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	mountOps(r, cfg, logg, gatherer, deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", controllers.StateSnapshot(svc))

		r.Get("/products", controllers.ListProducts(svc))
		r.Get("/products/{productId}", controllers.GetProduct(svc, logg))
		r.Post("/products/{productId}/reviews", controllers.AddReview(svc, logg))

		r.Get("/orders", controllers.ListOrders(svc, logg))
		r.Get("/orders/{orderId}", controllers.GetOrder(svc, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svc))
			r.Delete("/", controllers.ClearCart(svc))
			r.Post("/items", controllers.AddCartItem(svc, logg))
			r.Put("/items/{productId}", controllers.UpdateCartItem(svc, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(svc, logg))
		})
		r.Post("/checkout", controllers.Checkout(svc, logg))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.GetSession(svc))
			r.Put("/", controllers.UpdateSession(svc, logg))
			r.Post("/logout", controllers.Logout(svc))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/products", controllers.AdminCreateProduct(svc, logg))
			r.Put("/products/{productId}", controllers.AdminUpdateProduct(svc, logg))
			r.Delete("/products/{productId}", controllers.AdminDeleteProduct(svc, logg))

			r.Patch("/orders/{orderId}", controllers.AdminUpdateOrder(svc, logg))

			r.Get("/users", controllers.AdminListUsers(svc))
			r.Post("/users", controllers.AdminCreateUser(svc, logg))
			r.Put("/users/{userId}", controllers.AdminUpdateUser(svc, logg))
			r.Delete("/users/{userId}", controllers.AdminDeleteUser(svc, logg))
		})
	})

	return r
}

// NewGatewayRouter serves the remote data gateway REST surface over gw.
func NewGatewayRouter(
	cfg *config.Config,
	logg *logger.Logger,
	gw *gateway.Gateway,
	gatherer prometheus.Gatherer,
	deps map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	mountOps(r, cfg, logg, gatherer, deps)

	products := collections.Spec[types.Product]{
		Name:     gateway.CollectionProducts,
		IDOf:     func(p types.Product) string { return p.ID },
		Validate: types.Product.Validate,
	}
	orders := collections.Spec[types.Order]{
		Name:     gateway.CollectionOrders,
		IDOf:     func(o types.Order) string { return o.ID },
		Validate: func(o types.Order) error { return types.Validator().Struct(o) },
	}
	users := collections.Spec[types.UserAccount]{
		Name:     gateway.CollectionUsers,
		IDOf:     func(u types.UserAccount) string { return u.ID },
		Validate: types.UserAccount.Validate,
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/"+gateway.CollectionProducts, func(r chi.Router) {
			r.Get("/", collections.List(gw.Products, products, logg))
			r.Put("/{id}", collections.Put(gw.Products, products, logg))
			r.Delete("/{id}", collections.Delete(gw.Products, products, logg))
		})
		r.Route("/"+gateway.CollectionOrders, func(r chi.Router) {
			r.Get("/", collections.List[types.Order](gw.Orders, orders, logg))
			r.Put("/{id}", collections.Put[types.Order](gw.Orders, orders, logg))
			r.Delete("/{id}", collections.Delete[types.Order](gw.Orders, orders, logg))
			r.Patch("/{id}", collections.PatchOrder(gw.Orders, logg))
		})
		r.Route("/"+gateway.CollectionUsers, func(r chi.Router) {
			r.Get("/", collections.List(gw.Users, users, logg))
			r.Put("/{id}", collections.Put(gw.Users, users, logg))
			r.Delete("/{id}", collections.Delete(gw.Users, users, logg))
		})
	})

	return r
}

func mountOps(r chi.Router, cfg *config.Config, logg *logger.Logger, gatherer prometheus.Gatherer, deps map[string]controllers.Pinger) {
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if gatherer != nil && cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
}
