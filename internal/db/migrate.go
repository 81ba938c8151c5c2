package db

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file
	// source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cwhuang/quote-app/internal/config"
	"github.com/cwhuang/quote-app/internal/models"
)

var passwordRegex = regexp.MustCompile(`(password=)([^\s]+)`)

// Connect opens the database with retries, applies the schema and returns
// the handle. MIGRATIONS=1 runs SQL migrations from ./migrations via
// golang-migrate; otherwise AutoMigrate keeps dev setups working.
func Connect(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := NormalizeDSN(cfg.DatabaseDSN)
	if dsn == "" {
		return nil, errors.New("DATABASE_DSN is empty, check the environment configuration")
	}

	logLevel := logger.Silent
	if cfg.DBDebug {
		logLevel = logger.Info
	}
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err == nil {
			break
		}
		log.Warn("retrying db connection", zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	log.Info("db connected", zap.String("dsn", passwordRegex.ReplaceAllString(dsn, `${1}***`)))

	if cfg.Migrations {
		if err := RunSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	// sanity check: ensure required core tables exist
	for _, table := range []string{"users", "quotes", "quote_items", "quote_shares"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if cfg.Seed {
		if err := seed(db); err != nil {
			log.Warn("seed failed", zap.Error(err))
		}
	}
	return db, nil
}

// AutoMigrate applies the GORM schema for every model. Also used by tests
// against sqlite.
func AutoMigrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.User{}, &models.Customer{}, &models.Product{}, &models.Staff{},
		&models.Bank{}, &models.Quote{}, &models.QuoteItem{}, &models.QuoteShare{},
		&models.Setting{},
	}
	for _, m := range modelsToMigrate {
		if migErr := db.AutoMigrate(m); migErr != nil {
			return fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	return nil
}

// RunSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source. The DSN is converted to URL form first, which
// is the only form golang-migrate accepts.
func RunSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", ToURLDSN(dsn))
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
