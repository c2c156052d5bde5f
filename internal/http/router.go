package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Carts          CartService
	Orders         OrderService
	Catalog        CatalogService
	Addresses      AddressService
	Features       FeatureService
	JWTSecret      []byte
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

func NewRouter(cfg RouterConfig) chi.Router {
	cartHandler := NewCartHandler(cfg.Carts)
	orderHandler := NewOrderHandler(cfg.Orders)
	productHandler := NewProductHandler(cfg.Catalog)
	addressHandler := NewAddressHandler(cfg.Addresses)
	featureHandler := NewFeatureHandler(cfg.Features)

	auth := AuthMiddleware(cfg.JWTSecret)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/shop", func(r chi.Router) {
		// catalog browsing is public
		r.Get("/products/get", productHandler.List)
		r.Get("/products/get/{id}", productHandler.Get)
		r.Get("/search/{keyword}", productHandler.Search)

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Route("/cart", func(r chi.Router) {
				r.Post("/add", cartHandler.AddItem)
				r.Put("/update-quantity", cartHandler.UpdateQuantity)
				r.With(RequireSameUser).Get("/get/{userId}", cartHandler.GetCart)
				r.With(RequireSameUser).Delete("/delete/{userId}/{productId}", cartHandler.RemoveItem)
			})

			r.Route("/order", func(r chi.Router) {
				r.Post("/create", orderHandler.Create)
				r.Post("/capture", orderHandler.Capture)
				r.With(RequireSameUser).Get("/list/{userId}", orderHandler.ListByUser)
				r.Get("/details/{id}", orderHandler.Details)
			})

			r.Route("/address", func(r chi.Router) {
				r.Post("/add", addressHandler.Add)
				r.With(RequireSameUser).Get("/get/{userId}", addressHandler.List)
				r.With(RequireSameUser).Put("/update/{userId}/{addressId}", addressHandler.Update)
				r.With(RequireSameUser).Delete("/delete/{userId}/{addressId}", addressHandler.Delete)
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth, RequireAdmin)

		r.Get("/orders/get", orderHandler.AdminList)
		r.Get("/orders/details/{id}", orderHandler.AdminDetails)
		r.Put("/orders/update/{id}", orderHandler.UpdateStatus)

		r.Post("/products/add", productHandler.Create)
		r.Put("/products/edit/{id}", productHandler.Edit)
		r.Delete("/products/delete/{id}", productHandler.Delete)
		r.Get("/products/get", productHandler.AdminList)
	})

	r.Route("/api/common/feature", func(r chi.Router) {
		r.Get("/get", featureHandler.List)
		r.With(auth, RequireAdmin).Post("/add", featureHandler.Add)
		r.With(auth, RequireAdmin).Delete("/delete/{id}", featureHandler.Delete)
	})

	return r
}
