package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tavolopos/tavolo-backend/api/controllers"
	"github.com/tavolopos/tavolo-backend/api/middleware"
	"github.com/tavolopos/tavolo-backend/internal/cart"
	"github.com/tavolopos/tavolo-backend/internal/catalog"
	checkoutsvc "github.com/tavolopos/tavolo-backend/internal/checkout"
	"github.com/tavolopos/tavolo-backend/internal/inventory"
	modsvc "github.com/tavolopos/tavolo-backend/internal/modifiers"
	ordersvc "github.com/tavolopos/tavolo-backend/internal/orders"
	staffsvc "github.com/tavolopos/tavolo-backend/internal/staff"
	"github.com/tavolopos/tavolo-backend/pkg/config"
	"github.com/tavolopos/tavolo-backend/pkg/db"
	"github.com/tavolopos/tavolo-backend/pkg/logger"
	"github.com/tavolopos/tavolo-backend/pkg/metrics"
	"github.com/tavolopos/tavolo-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Staff     staffsvc.Service
	Catalog   catalog.Service
	Modifiers modsvc.Service
	Inventory inventory.Service
	Orders    ordersvc.Service
	Checkout  checkoutsvc.Service
	CartStore *cart.SessionStore
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	collector *metrics.HTTP,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(collector),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if collector != nil {
		r.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.LoginRateLimit(cfg.RateLimit.LoginWindow, cfg.RateLimit.LoginIPLimit, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Staff, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(svcs.Catalog, logg))
		})

		r.Route("/cart/{registerId}", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.CartStore, logg))
			r.Post("/commands", controllers.CartDispatch(svcs.CartStore, svcs.Catalog, svcs.Modifiers, logg))
			r.Delete("/", controllers.CartClear(svcs.CartStore, logg))
		})

		r.Route("/checkout/{registerId}", func(r chi.Router) {
			r.Post("/quote", controllers.CheckoutQuote(svcs.Checkout, logg))
			r.Post("/", controllers.CheckoutPlace(svcs.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Get("/by-no/{orderNo}", controllers.OrderDetailByNo(svcs.Orders, logg))
			r.Post("/{orderId}/pay", controllers.OrderPay(svcs.Orders, logg))
			r.Post("/{orderId}/void", controllers.OrderVoid(svcs.Orders, logg))
		})

		// back office, manager only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("manager", logg))

			r.Route("/admin/products", func(r chi.Router) {
				r.Post("/", controllers.ProductCreate(svcs.Catalog, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(svcs.Catalog, logg))
				r.Delete("/{productId}", controllers.ProductDelete(svcs.Catalog, logg))
			})

			r.Route("/admin/modifier-groups", func(r chi.Router) {
				r.Post("/", controllers.ModifierGroupCreate(svcs.Modifiers, logg))
				r.Patch("/{groupId}", controllers.ModifierGroupUpdate(svcs.Modifiers, logg))
				r.Delete("/{groupId}", controllers.ModifierGroupDelete(svcs.Modifiers, logg))
			})
			r.Route("/admin/modifiers", func(r chi.Router) {
				r.Post("/", controllers.ModifierCreate(svcs.Modifiers, logg))
				r.Patch("/{modifierId}", controllers.ModifierUpdate(svcs.Modifiers, logg))
				r.Delete("/{modifierId}", controllers.ModifierDelete(svcs.Modifiers, logg))
			})
			r.Route("/admin/addons", func(r chi.Router) {
				r.Post("/", controllers.AddonCreate(svcs.Modifiers, logg))
				r.Patch("/{addonId}", controllers.AddonUpdate(svcs.Modifiers, logg))
				r.Delete("/{addonId}", controllers.AddonDelete(svcs.Modifiers, logg))
			})

			r.Route("/admin/inventory", func(r chi.Router) {
				r.Get("/", controllers.InventoryItemList(svcs.Inventory, logg))
				r.Post("/", controllers.InventoryItemCreate(svcs.Inventory, logg))
				r.Get("/{itemId}", controllers.InventoryItemDetail(svcs.Inventory, logg))
				r.Patch("/{itemId}", controllers.InventoryItemUpdate(svcs.Inventory, logg))
				r.Post("/{itemId}/adjust", controllers.InventoryItemAdjust(svcs.Inventory, logg))
				r.Get("/{itemId}/history", controllers.InventoryItemHistory(svcs.Inventory, logg))
			})

			r.Route("/admin/staff", func(r chi.Router) {
				r.Get("/", controllers.StaffList(svcs.Staff, logg))
				r.Post("/", controllers.StaffCreate(svcs.Staff, logg))
				r.Get("/{staffId}", controllers.StaffDetail(svcs.Staff, logg))
				r.Patch("/{staffId}", controllers.StaffUpdate(svcs.Staff, logg))
			})
		})
	})

	return r
}
