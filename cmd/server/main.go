package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parish-backend/internal/auth"
	"parish-backend/internal/cache"
	"parish-backend/internal/certificates"
	"parish-backend/internal/config"
	"parish-backend/internal/database"
	"parish-backend/internal/db"
	h "parish-backend/internal/http"
	"parish-backend/internal/handlers"
	"parish-backend/internal/health"
	"parish-backend/internal/logger"
	"parish-backend/internal/memstore"
	"parish-backend/internal/metrics"
	"parish-backend/internal/middleware"
	"parish-backend/internal/repositories"
	"parish-backend/internal/services"
	"parish-backend/internal/storage"
	"parish-backend/internal/timeutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	clock := timeutil.SystemClock{}

	// Storage: PostgreSQL in production, in-memory for demos and local runs
	var store repositories.Store
	var dbPinger health.Pinger
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		migrator := database.NewMigrator(pool, cfg.Database.MigrationsDir, logger.Component(log, "migrator"))
		if err := migrator.RunMigrations(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		store = repositories.NewPostgresStore(pool)
		dbPinger = pool
	default:
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		store = memstore.New()
	}

	// Registry cache (optional)
	var redisClient *redis.Client
	var cachePinger health.Pinger
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, registry cache disabled")
		} else {
			redisClient = client
			defer redisClient.Close()
			cachePinger = health.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
			log.Info().Str("addr", cfg.Redis.Addr).Msg("Registry cache connected")
		}
	}
	registryCache := cache.NewRegistryCache(redisClient,
		time.Duration(cfg.Redis.RegistryTTLSeconds)*time.Second,
		logger.Component(log, "cache"))

	// Off-site certificate archive (optional)
	var archive storage.Archiver
	if cfg.Archive.Enabled {
		s3Archive, err := storage.NewS3Archive(ctx, cfg.Archive)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to configure certificate archive")
		}
		archive = s3Archive
		log.Info().Str("bucket", cfg.Archive.Bucket).Msg("Certificate archive enabled")
	}

	logo, err := certificates.LoadLogo(cfg.Certificates.LogoPath)
	if err != nil {
		log.Warn().Err(err).Msg("Parish logo not loaded, certificates will print without it")
	}

	reminderAfter := time.Duration(cfg.Certificates.UploadReminderHours) * time.Hour
	certOpts := services.CertificateOptions{
		Letterhead: certificates.Letterhead{
			Diocese:     cfg.Parish.Diocese,
			ParishName:  cfg.Parish.Name,
			Location:    cfg.Parish.Location,
			PriestName:  cfg.Parish.PriestName,
			PriestTitle: cfg.Parish.PriestTitle,
			Logo:        logo,
		},
		UploadLimit:   cfg.UploadLimitBytes(),
		ReminderAfter: reminderAfter,
	}

	// Initialize services
	jwtManager := auth.NewJWTManager(cfg)
	userService := services.NewUserService(store, jwtManager, clock, logger.Component(log, "users"))
	requestService := services.NewRequestService(store, clock, m, registryCache, logger.Component(log, "requests"))
	certificateService := services.NewCertificateService(store, certificates.NewGofpdfRenderer(), archive,
		clock, m, registryCache, certOpts, logger.Component(log, "certificates"))
	recordService := services.NewRecordService(store, clock, registryCache, logger.Component(log, "records"))
	registryService := services.NewRegistryService(store, clock, m, registryCache, reminderAfter, logger.Component(log, "registry"))

	if err := userService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Name); err != nil {
		log.Fatal().Err(err).Msg("Failed to create bootstrap admin")
	}

	// Initialize handlers
	httpLog := logger.Component(log, "http")
	router := h.NewRouter(
		handlers.NewAuthHandler(userService, httpLog),
		handlers.NewRequestHandler(requestService, certificateService, httpLog),
		handlers.NewRecordHandler(recordService, httpLog),
		handlers.NewCertificateHandler(certificateService, registryService, httpLog),
		handlers.NewHealthHandler(health.NewHealthChecker(dbPinger, cachePinger)),
		middleware.NewAuthMiddleware(jwtManager, userService),
		m,
		promhttp.Handler(),
		httpLog,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      middleware.NewCORS(cfg)(router),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
