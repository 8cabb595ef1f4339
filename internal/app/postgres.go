package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/guttosm/hffactors/config"

	_ "github.com/lib/pq" // PostgreSQL driver for database/sql
)

const (
	pingTimeout     = 5 * time.Second
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
)

// sqlOpener is an indirection for unit testing; defaults to sql.Open
var sqlOpener = sql.Open

// postgresOpener is an indirection used by InitializeApp; overridden in tests to avoid real connections.
var postgresOpener = InitPostgres

// dsn returns cfg.Postgres.URL when set, otherwise a URL assembled from the
// individual fields with credentials escaped.
func dsn(cfg config.PostgresConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// poolSize gives every concurrently processed day its own connection for
// the COPY transaction plus headroom for the run-log checks and API reads.
func poolSize(cfg config.Config) int {
	return max(cfg.Pipeline.ParallelDays, 1) + 4
}

// InitPostgres opens the factor store and verifies connectivity.
//
// The returned pool is sized from cfg.Pipeline.ParallelDays. A failed ping
// closes the pool before returning.
func InitPostgres(cfg config.Config) (*sql.DB, error) {
	db, err := sqlOpener("postgres", dsn(cfg.Postgres))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	n := poolSize(cfg)
	db.SetMaxOpenConns(n)
	db.SetMaxIdleConns(n)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}
