// Package database opens the PostgreSQL connection used by the GORM repositories.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrEmptyDSN is returned by Open when no connection string is configured.
var ErrEmptyDSN = errors.New("database DSN is empty")

// Config controls GORM/PostgreSQL connectivity.
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        gormlogger.LogLevel
}

// Open connects to PostgreSQL and verifies the pool with a ping.
// URL-style DSNs get their database created on first start.
func Open(ctx context.Context, cfg Config) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, ErrEmptyDSN
	}
	if err := createIfMissing(ctx, cfg.DSN); err != nil {
		return nil, fmt.Errorf("ensure database: %w", err)
	}

	level := cfg.LogLevel
	if level == 0 {
		level = gormlogger.Warn
	}
	settings := GormConfig(level)
	settings.PrepareStmt = true

	db, err := gorm.Open(postgres.Open(cfg.DSN), settings)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieve sql db: %w", err)
	}
	applyPoolLimits(pool, cfg)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// GormConfig returns the GORM settings shared by the service and repository tests.
// TranslateError turns unique and foreign key violations into gorm sentinels.
func GormConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

func applyPoolLimits(pool *sql.DB, cfg Config) {
	if cfg.MaxIdleConns > 0 {
		pool.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		pool.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		pool.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

func createIfMissing(ctx context.Context, dsn string) error {
	name, adminDSN, ok := splitMaintenanceDSN(dsn)
	if !ok {
		return nil
	}

	admin, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return err
	}
	defer admin.Close()

	var found bool
	const lookup = `SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`
	if err := admin.QueryRowContext(ctx, lookup, name).Scan(&found); err != nil {
		return err
	}
	if found {
		return nil
	}
	_, err = admin.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name))
	return err
}

// splitMaintenanceDSN returns the target database name and the same DSN pointed
// at the postgres maintenance database. Key/value DSNs are not rewritten.
func splitMaintenanceDSN(dsn string) (name, adminDSN string, ok bool) {
	u, err := url.Parse(dsn)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		return "", "", false
	}
	name = strings.TrimPrefix(u.Path, "/")
	if name == "" || name == "postgres" {
		return "", "", false
	}
	admin := *u
	admin.Path = "/postgres"
	return name, admin.String(), true
}
