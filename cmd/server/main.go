package main

import (
	"context"   // Lifetime of the process
	"errors"    // Error inspection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Graceful shutdown
	"syscall"   // Signal numbers
	"time"      // Timeouts

	"auction_system/internal/api"        // HTTP handlers and router
	"auction_system/internal/config"     // Configuration
	"auction_system/internal/db"         // Database connection
	"auction_system/internal/lock"       // Per-product locks
	"auction_system/internal/middleware" // Login rate limiting
	"auction_system/internal/notify"     // Winner email
	"auction_system/internal/repository" // gorm store
	"auction_system/internal/service"    // Workflows
	"auction_system/internal/storage"    // Image storage
	"auction_system/internal/utils"      // Cache

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	} else {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	// Connect to the database
	conn, err := db.Open(cfg.DB.DSN(), logrus.IsLevelEnabled(logrus.DebugLevel))
	if err != nil {
		logrus.Fatal(err)
	}
	st := repository.New(conn)

	// Redis backs the cache and the product locks; without it both stay in-process
	var (
		cache  utils.Cache = utils.NopCache{}
		locker lock.Locker = lock.NewLocal()
	)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr, // Redis server address
			Password: cfg.Redis.Pass, // Redis password
			DB:       cfg.Redis.DB,   // Redis database number
		})
		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = utils.NewRedisCache(redisClient)
		locker = lock.NewRedis(redisClient, cfg.LockTTL)
	} else {
		logrus.Warn("REDIS_ADDR not set: caching disabled and bid locks are local to this process")
	}

	// Winner notifications
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTP.Host != "" {
		notifier = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:      cfg.SMTP.Host,
			Port:      cfg.SMTP.Port,
			User:      cfg.SMTP.User,
			Password:  cfg.SMTP.Password,
			FromName:  cfg.SMTP.FromName,
			FromEmail: cfg.SMTP.FromEmail,
		})
	}

	// Image storage: MinIO when configured, local directory otherwise
	var images storage.ImageStore
	if cfg.MinIO.Endpoint != "" {
		images, err = storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
	} else {
		images, err = storage.NewDisk(cfg.Uploads.Dir)
	}
	if err != nil {
		logrus.Fatalf("failed to initialize image storage: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := api.NewRouter(api.Deps{
		Users: service.NewUserService(st, images, service.UserOptions{
			JWTSecret:       cfg.JWTSecret,
			PlatformAdminID: cfg.PlatformAdminID,
			MaxUpload:       cfg.Uploads.MaxSize,
		}),
		Catalog: service.NewCatalogService(st, cache, images, cfg.Uploads.MaxSize),
		Auction: service.NewAuctionService(st, locker, notifier, cache, service.AuctionOptions{
			PlatformAdminID: cfg.PlatformAdminID,
			LockWait:        cfg.LockWait,
		}),
		Wishlist:       service.NewWishlistService(st),
		Images:         images,
		JWTSecret:      cfg.JWTSecret,
		LoginLimiter:   middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginBurst),
		MaxUpload:      cfg.Uploads.MaxSize,
		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown failed: %v", err)
	}
}
