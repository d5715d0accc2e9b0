package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fineart/config"
	"fineart/database"
	adminapi "fineart/internal/api/admin"
	articlesapi "fineart/internal/api/articles"
	artistsapi "fineart/internal/api/artists"
	artworksapi "fineart/internal/api/artworks"
	authapi "fineart/internal/api/auth"
	boardsapi "fineart/internal/api/boards"
	catalogapi "fineart/internal/api/catalog"
	exhibitionsapi "fineart/internal/api/exhibitions"
	"fineart/internal/api/live"
	"fineart/internal/api/storefront"
	stripewebhooks "fineart/internal/api/stripewebhook"
	"fineart/internal/api/uploads"
	"fineart/internal/api/users"
	routes "fineart/internal/app/http"
	"fineart/internal/app/http/middleware"
	"fineart/internal/catalog"
	cronrunner "fineart/internal/infra/cron"
	"fineart/internal/infra/logger"
	redisclient "fineart/internal/infra/redis"
	"fineart/internal/infra/stripe"
	mediastore "fineart/internal/media"
	"fineart/internal/session"
	"fineart/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBURL, cfg.IsDevelopment(), log)
	if err != nil {
		return err
	}
	st := store.New(db)

	broker := session.NewBroker(log)
	var (
		revocations  session.RevocationStore = session.NewMemoryRevocations()
		catalogCache catalog.Cache           = catalog.NopCache{}
	)
	if cfg.RedisURL != "" {
		rdb, err := redisclient.NewClient(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Warn("redis unavailable, keeping session state in memory", zap.Error(err))
		} else {
			defer func() { _ = rdb.Close() }()
			revocations = session.NewRedisRevocations(rdb)
			catalogCache = catalog.NewRedisCache(rdb, cfg.CatalogCacheTTL)
			relay := session.NewRedisRelay(rdb, broker, log)
			broker.SetRelay(relay)
			go relay.Run(ctx)
		}
	}

	issuer := session.NewIssuer(cfg.JWTSecret, session.DefaultTTL, revocations)
	catalogSvc := catalog.NewService(st, catalogCache, log)

	jobs := cronrunner.New(ctx, log)
	if _, err := jobs.Add(cfg.CatalogWarmSpec, "catalog-warm", catalogSvc.Warm); err != nil {
		return fmt.Errorf("schedule catalog warm: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	h := buildHandlers(cfg, st, catalogSvc, issuer, broker, log)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(log))
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.ServiceKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(engine, h)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildHandlers(
	cfg *config.Config,
	st *store.Store,
	catalogSvc *catalog.Service,
	issuer *session.Issuer,
	broker *session.Broker,
	log *zap.Logger,
) routes.Handlers {
	h := routes.Handlers{
		Artists:     &artistsapi.Handler{Store: st, Catalog: catalogSvc, Logger: log},
		Artworks:    &artworksapi.Handler{Store: st, Catalog: catalogSvc, Logger: log},
		Exhibitions: &exhibitionsapi.Handler{Store: st, Catalog: catalogSvc, Logger: log},
		Boards:      &boardsapi.Handler{Store: st, Logger: log},
		Articles:    &articlesapi.Handler{Store: st, Logger: log},
		Catalog:     &catalogapi.Handler{Service: catalogSvc, Logger: log},
		Auth:        &authapi.Handler{Store: st, Tokens: issuer, Events: broker, Logger: log},
		Users:       &users.Handler{Store: st, Logger: log},
		Admin:       &adminapi.Handler{Store: st, Sessions: issuer, Events: broker, Logger: log},
		Storefront:  &storefront.Handler{Store: st, Currency: cfg.StoreCurrency, AppURL: cfg.AppURL, Logger: log},
		Webhook:     &stripewebhooks.Handler{Store: st, Catalog: catalogSvc, Logger: log},
		Live: &live.Handler{
			Store:    st,
			Sessions: broker,
			Upgrader: live.NewUpgrader(cfg.CORSOrigin),
			Debounce: cfg.SearchDebounce,
			Logger:   log,
		},
		Tokens:     issuer,
		ServiceKey: cfg.ServiceRoleKey,
		DB:         st,
	}

	if cfg.GoogleEnabled() {
		h.Auth.Google = authapi.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL, cfg.GoogleFrontendRedirect, !cfg.IsDevelopment())
	} else {
		log.Info("google sign-in disabled")
	}

	if cfg.StripeSecretKey != "" {
		payments := stripe.NewClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
		h.Storefront.Payments = payments
		h.Webhook.Verifier = payments
	} else {
		log.Info("stripe not configured, storefront checkout disabled")
	}

	var uploader mediastore.Uploader
	if cfg.UploadEndpoint != "" {
		uploader = mediastore.NewRemoteUploader(cfg.UploadEndpoint, cfg.UploadEndpointKey)
	} else {
		uploader = mediastore.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
		h.UploadDir = cfg.UploadDir
		h.UploadPath = uploadPath(cfg.UploadBaseURL)
	}
	h.Uploads = &uploads.Handler{Store: st, Uploader: uploader, Logger: log}

	return h
}

// uploadPath is the route prefix local files are served under. An absolute base URL
// (a CDN in front of this server) contributes only its path.
func uploadPath(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}
