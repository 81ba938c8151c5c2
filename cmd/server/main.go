package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/auth"
	"github.com/cwhuang/quote-app/internal/config"
	"github.com/cwhuang/quote-app/internal/db"
	"github.com/cwhuang/quote-app/internal/export"
	"github.com/cwhuang/quote-app/internal/models"
	"github.com/cwhuang/quote-app/internal/server"
)

var migrateOnly = flag.Bool("migrate-only", false, "run database migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	conn, err := db.Connect(cfg, logger)
	if err != nil {
		logger.Fatal("database setup failed", zap.Error(err))
	}
	if *migrateOnly {
		logger.Info("migrations completed, exiting")
		return
	}

	auth.SetSecret(cfg.SessionSecret)
	auth.SetUserVerifier(userExists(conn))

	app := server.New(conn, logger, export.NewService())
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: app,
		// write timeout covers PDF capture, which can take seconds
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	return logger
}

// userExists backs auth.RequireAuth: sessions of deleted users stop
// working immediately instead of at cookie expiry.
func userExists(conn *gorm.DB) auth.UserVerifier {
	return func(ctx context.Context, uid uint) bool {
		var n int64
		if err := conn.WithContext(ctx).Model(&models.User{}).Where("id = ?", uid).Count(&n).Error; err != nil {
			return false
		}
		return n > 0
	}
}
