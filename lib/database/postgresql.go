package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	rolodex "rolodex/lib"
)

// ConnectPostgres opens a pooled sqlx connection and verifies it with a ping.
func ConnectPostgres(ctx context.Context, l rolodex.Logger, dsn string, pool rolodex.PoolConfig) (*sqlx.DB, error) {
	l.Debug("Initializing PostgreSQL database connection")

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	ApplyPool(db, pool)

	l.Info("Connected to PostgreSQL",
		zap.Int("max_open", pool.MaxOpen),
		zap.Int("max_idle", pool.MaxIdle),
	)
	return db, nil
}

// ApplyPool sets the pool limits; zero values keep database/sql defaults.
func ApplyPool(db *sqlx.DB, pool rolodex.PoolConfig) {
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
}
