package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/My-selling-apps/PhoneBechPakistan/api/controllers"
	"github.com/My-selling-apps/PhoneBechPakistan/api/routes"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/ads"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/contact"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/favorites"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/featured"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/moderation"
	"github.com/My-selling-apps/PhoneBechPakistan/internal/registration"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/auth/session"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/classifier"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/config"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/db"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/logger"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/mailer"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/metrics"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/migrate"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/pubsub"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/redis"
	"github.com/My-selling-apps/PhoneBechPakistan/pkg/storage/supabase"
)

const shutdownGrace = 15 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "dev migrations", err)

	redisClient, err := redis.New(ctx, cfg.Redis)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	storageClient, err := supabase.NewClient(ctx, cfg.Storage, logg)
	requireResource(ctx, logg, "storage", err)

	classifierClient, err := classifier.NewClient(cfg.Classifier)
	requireResource(ctx, logg, "classifier", err)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	otpMailer := mailer.New(cfg.Resend, cfg.App.IsDev(), logg)
	pipelineMetrics := metrics.NewPipelineMetrics(prometheus.DefaultRegisterer)

	adsRepo := ads.NewRepository(dbClient.DB())
	adsService, err := ads.NewService(ads.ServiceParams{
		Repo:       adsRepo,
		Classifier: classifierClient,
		Storage:    storageClient,
		Publisher:  pubsubClient,
		Policy:     ads.NewPolicy(cfg.Classifier),
		AdsConfig:  cfg.Ads,
		Metrics:    pipelineMetrics,
		Logger:     logg,
	})
	requireResource(ctx, logg, "ads service", err)

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoritesRepo: favorites.NewRepository(dbClient.DB()),
		AdsRepo:       adsRepo,
	})
	requireResource(ctx, logg, "favorites service", err)

	featuredService, err := featured.NewService(featured.ServiceParams{
		FeaturedRepo: featured.NewRepository(dbClient.DB()),
		AdsRepo:      adsRepo,
	})
	requireResource(ctx, logg, "featured service", err)

	moderationService, err := moderation.NewService(moderation.ServiceParams{
		Ads:       adsService,
		Rejected:  adsRepo,
		Publisher: pubsubClient,
		Logger:    logg,
	})
	requireResource(ctx, logg, "moderation service", err)

	contactService, err := contact.NewService(contact.NewRepository(dbClient.DB()))
	requireResource(ctx, logg, "contact service", err)

	registrationService, err := registration.NewService(registration.ServiceParams{
		Repo:      registration.NewRepository(dbClient.DB()),
		Mailer:    otpMailer,
		Throttle:  redisClient,
		Sessions:  sessionManager,
		JWT:       cfg.JWT,
		Password:  cfg.Password,
		OTP:       cfg.Registration,
		RateLimit: cfg.OTPRateLimit,
		Logger:    logg,
	})
	requireResource(ctx, logg, "registration service", err)

	handler := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Redis:    redisClient,
		Sessions: sessionManager,
		HealthChecks: map[string]controllers.Pinger{
			"database":   dbClient,
			"redis":      redisClient,
			"pubsub":     pubsubClient,
			"storage":    storageClient,
			"classifier": classifierClient,
		},
		Ads:          adsService,
		Favorites:    favoritesService,
		Featured:     featuredService,
		Moderation:   moderationService,
		Contact:      contactService,
		Registration: registrationService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(runCtx, "api server stopped")
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
