package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shespeaks/internal/cache"
	"shespeaks/internal/config"
	"shespeaks/internal/insight"
	"shespeaks/internal/logger"
	"shespeaks/internal/repository"
	"shespeaks/internal/service"
	"shespeaks/internal/transport/rest"
	"shespeaks/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{}).WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(logger.Options{
		Environment: cfg.Environment,
		Level:       cfg.Logging.Level,
		File:        cfg.Logging.File,
		FileMaxSize: cfg.Logging.MaxSize,
		FileMaxAge:  cfg.Logging.MaxAge,
	})
	log.WithField("env", cfg.Environment).Info("started")

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		// pages keep serving their empty state until the store comes back
		log.WithError(err).Warn("MongoDB ping failed")
	} else {
		log.Info("connected to MongoDB")
	}

	db := mongoClient.Database(cfg.Mongo.Database)
	responses := repository.NewResponseRepo(db, cfg.Mongo.Collection, cfg.Mongo.FetchRetry, log)

	// Redis connection (optional snapshot tier)
	var snapshots cache.SnapshotCache
	if cfg.Redis.URI != "" {
		rdb := redis.NewClient(redisOptions(cfg.Redis.URI))
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, snapshots disabled")
		} else {
			snapshots = cache.NewSnapshotCache(rdb, cfg.Cache.TTL)
			log.Info("connected to Redis")
		}
	}

	catalogue := insight.DefaultCatalogue()
	if cfg.CatalogueFile != "" {
		catalogue, err = insight.LoadCatalogue(cfg.CatalogueFile)
		if err != nil {
			log.WithError(err).Fatal("failed to load recommendation catalogue")
		}
		log.WithField("file", cfg.CatalogueFile).Info("recommendation catalogue loaded")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub(log)
	defer wsHub.Close()

	// Initialize services
	tables := service.NewTableService(responses, snapshots, time.Now, log)
	tableCache := cache.NewTableCache(tables.Load, cfg.Cache.TTL, time.Now, log)
	tableCache.OnRefresh(service.NotifyRefresh(wsHub))

	authSvc := service.NewAuthService(cfg.Auth)
	dashboardSvc := service.NewDashboardService(tableCache, tables, service.NewPageBuilder(insight.NewEngine(catalogue)), log)

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		DashboardService: dashboardSvc,
		WSHub:            wsHub,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		Logger:           log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}

	log.Info("server exited")
}

// redisOptions accepts either a redis:// URL or a bare host:port
func redisOptions(uri string) *redis.Options {
	if strings.Contains(uri, "://") {
		if opts, err := redis.ParseURL(uri); err == nil {
			return opts
		}
	}
	return &redis.Options{Addr: uri}
}
