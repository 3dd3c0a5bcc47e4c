package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/My-selling-apps/PhoneBechPakistan/api/controllers"
	"github.com/My-selling-apps/PhoneBechPakistan/api/middleware"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/contact"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/favorites"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/featured"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/moderation"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/registration"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/auth/session"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
	pkgredis "github.com/My-selling-apps/PhoneBechPakistan/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Health pingers may be nil
// when a dependency is not wired in a given environment.
type Deps struct {
	Config       *config.Config
	Logger       *logger.Logger
	Redis        *pkgredis.Client
	Sessions     session.AccessSessionChecker
	HealthChecks map[string]controllers.Pinger

	Ads          ads.Service
	Favorites    favorites.Service
	Featured     featured.Service
	Moderation   moderation.Service
	Contact      contact.Service
	Registration registration.Service
}

// NewRouter wires middleware and every route group onto one chi router.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	otpPolicy := middleware.NewOTPRateLimitPolicy("otp", cfg.OTPRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.HealthChecks))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.OTPRateLimit(otpPolicy, deps.Redis, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/register", controllers.AuthRegister(deps.Registration, logg))
		r.Post("/verify", controllers.AuthVerify(deps.Registration, logg))
		r.Post("/login", controllers.AuthLogin(deps.Registration, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Registration, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Registration, cfg.JWT, logg))
		r.With(middleware.OTPRateLimit(otpPolicy, deps.Redis, logg)).
			Post("/forgot-password", controllers.AuthForgotPassword(deps.Registration, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(deps.Registration, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ads", controllers.AdsList(deps.Ads, logg))
		r.Get("/ads/{adId}", controllers.AdsDetail(deps.Ads, logg))
		r.Get("/featured", controllers.FeaturedList(deps.Featured, logg))
		r.Post("/contact", controllers.ContactSubmit(deps.Contact, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.With(middleware.Idempotency(deps.Redis, logg)).
				Post("/ads", controllers.AdsSubmit(deps.Ads, cfg.Ads, logg))
			r.Get("/my-ads", controllers.AdsMine(deps.Ads, logg))
			r.Put("/ads/{adId}", controllers.AdsUpdate(deps.Ads, logg))
			r.Delete("/ads/{adId}", controllers.AdsDelete(deps.Ads, logg))

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesList(deps.Favorites, logg))
				r.Post("/{adId}", controllers.FavoritesAdd(deps.Favorites, logg))
				r.Delete("/{adId}", controllers.FavoritesRemove(deps.Favorites, logg))
			})
		})
	})

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/ads", controllers.AdminAdsList(deps.Moderation, logg))
		r.Delete("/ads/{adId}", controllers.AdminDeleteAd(deps.Moderation, logg))
		r.Get("/rejected-ads", controllers.AdminRejectedList(deps.Moderation, logg))
		r.Delete("/rejected-ads/{adId}", controllers.AdminDeleteRejected(deps.Moderation, logg))
		r.Post("/featured/{adId}", controllers.FeaturedPromote(deps.Featured, logg))
		r.Delete("/featured/{adId}", controllers.FeaturedDemote(deps.Featured, logg))
		r.Get("/contact", controllers.AdminContactList(deps.Contact, logg))
	})

	return r
}
