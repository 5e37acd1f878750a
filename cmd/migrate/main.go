package main

import (
	"context" // Bootstrap scoping

	"auction_system/internal/config"     // Configuration
	"auction_system/internal/db"         // Database connection and schema
	"auction_system/internal/repository" // gorm store
	"auction_system/internal/service"    // Admin bootstrap

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conn, err := db.Open(cfg.DB.DSN(), !cfg.IsProd)
	if err != nil {
		logrus.Fatal(err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatal(err)
	}

	// Create the platform admin when ADMIN_EMAIL is set and no admin exists yet
	if cfg.Admin.Email == "" {
		return
	}
	users := service.NewUserService(repository.New(conn), nil, service.UserOptions{JWTSecret: cfg.JWTSecret})
	admin, created, err := users.EnsureAdmin(context.Background(), cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		logrus.Fatalf("failed to bootstrap admin: %v", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": admin.ID, "created": created}).Info("Platform admin ready")
}
