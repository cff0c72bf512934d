package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/phonedex-backend/api/controllers"
	catalogcontrollers "github.com/angelmondragon/phonedex-backend/api/controllers/catalog"
	commentcontrollers "github.com/angelmondragon/phonedex-backend/api/controllers/comments"
	"github.com/angelmondragon/phonedex-backend/api/controllers/dashboard"
	reviewcontrollers "github.com/angelmondragon/phonedex-backend/api/controllers/reviews"
	searchcontrollers "github.com/angelmondragon/phonedex-backend/api/controllers/search"
	"github.com/angelmondragon/phonedex-backend/api/middleware"
	"github.com/angelmondragon/phonedex-backend/internal/brands"
	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/internal/comments"
	"github.com/angelmondragon/phonedex-backend/internal/compare"
	"github.com/angelmondragon/phonedex-backend/internal/phones"
	"github.com/angelmondragon/phonedex-backend/internal/reviews"
	"github.com/angelmondragon/phonedex-backend/internal/search"
	"github.com/angelmondragon/phonedex-backend/internal/users"
	"github.com/angelmondragon/phonedex-backend/internal/wishlist"
	"github.com/angelmondragon/phonedex-backend/pkg/config"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/metrics"
)

// Services are the domain services the router dispatches to.
type Services struct {
	Catalog  catalog.Service
	Compare  compare.Service
	Search   search.Service
	Brands   brands.Service
	Phones   phones.Service
	Reviews  reviews.Service
	Users    users.Service
	Comments comments.Service
	Wishlist wishlist.Service
}

// Infra carries the probes, limiter store and metrics registry.
type Infra struct {
	Ready       map[string]controllers.Pinger
	RateLimiter middleware.RateLimiterStore
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services, infra Infra) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, infra.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.ErrorDetail(cfg.App.IsDev() || cfg.FeatureFlags.ExposeInternalErrorDetails),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, infra.Ready))
	})
	if infra.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	searchPolicy := middleware.NewRateLimitPolicy("search", cfg.Search.RateLimitWindow, cfg.Search.RateLimitPerIP)
	caller := middleware.CallerIdentity(svc.Users, logg)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.App.RequestTimeout))

		r.Route("/phones", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ListPhones(svc.Catalog, logg))
			r.Get("/compare", catalogcontrollers.ComparePhones(svc.Compare, logg))
			r.Get("/{id}", catalogcontrollers.GetPhone(svc.Catalog, logg))
			r.Get("/{id}/reviews", reviewcontrollers.ListForPhone(svc.Reviews, logg))
			r.With(caller).Post("/{id}/reviews", reviewcontrollers.Submit(svc.Reviews, logg))
			r.Get("/{id}/comments", commentcontrollers.Thread(svc.Comments, logg))
			r.With(caller).Post("/{id}/comments", commentcontrollers.Create(svc.Comments, logg))
		})
		r.Post("/reviews/{id}/vote", reviewcontrollers.Vote(svc.Reviews, logg))

		r.Route("/brands", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ListBrands(svc.Catalog, logg))
			r.Get("/{slug}", catalogcontrollers.GetBrand(svc.Catalog, logg))
		})

		r.Route("/search", func(r chi.Router) {
			r.Use(middleware.RateLimit(searchPolicy, infra.RateLimiter, logg))
			r.Get("/", searchcontrollers.Search(svc.Search, logg))
			r.Get("/suggestions", searchcontrollers.Suggestions(svc.Search, logg))
			r.Get("/filters", searchcontrollers.Filters(svc.Search, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(caller)
			r.Get("/", controllers.WishlistList(svc.Wishlist, logg))
			r.Post("/", controllers.WishlistAddItem(svc.Wishlist, logg))
			r.Patch("/{phoneId}", controllers.WishlistUpdateItem(svc.Wishlist, logg))
			r.Delete("/{phoneId}", controllers.WishlistRemoveItem(svc.Wishlist, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Route("/brands", func(r chi.Router) {
				r.Get("/", dashboard.ListBrands(svc.Brands, logg))
				r.Post("/", dashboard.CreateBrand(svc.Brands, logg))
				r.Get("/{id}", dashboard.GetBrand(svc.Brands, logg))
				r.Put("/{id}", dashboard.UpdateBrand(svc.Brands, logg))
				r.Delete("/{id}", dashboard.DeleteBrand(svc.Brands, logg))
				r.Post("/{id}/restore", dashboard.RestoreBrand(svc.Brands, logg))
			})
			r.Route("/phones", func(r chi.Router) {
				r.Get("/", dashboard.ListPhones(svc.Phones, logg))
				r.Post("/", dashboard.CreatePhone(svc.Phones, logg))
				r.Get("/{id}", dashboard.GetPhone(svc.Phones, logg))
				r.Put("/{id}", dashboard.UpdatePhone(svc.Phones, logg))
				r.Delete("/{id}", dashboard.DeletePhone(svc.Phones, logg))
				r.Post("/{id}/restore", dashboard.RestorePhone(svc.Phones, logg))
			})
			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", dashboard.ListReviews(svc.Reviews, logg))
				r.Post("/", dashboard.CreateReview(svc.Reviews, logg))
				r.Get("/{id}", dashboard.GetReview(svc.Reviews, logg))
				r.Put("/{id}", dashboard.UpdateReview(svc.Reviews, logg))
				r.Delete("/{id}", dashboard.DeleteReview(svc.Reviews, logg))
			})
			r.Route("/users", func(r chi.Router) {
				r.Get("/", dashboard.ListUsers(svc.Users, logg))
				r.Post("/", dashboard.CreateUser(svc.Users, logg))
				r.Get("/{id}", dashboard.GetUser(svc.Users, logg))
				r.Put("/{id}", dashboard.UpdateUser(svc.Users, logg))
				r.Delete("/{id}", dashboard.DeleteUser(svc.Users, logg))
			})
			r.Route("/comments", func(r chi.Router) {
				r.Get("/", dashboard.ListComments(svc.Comments, logg))
				r.Put("/{id}/status", dashboard.SetCommentStatus(svc.Comments, logg))
			})
		})
	})

	return r
}
