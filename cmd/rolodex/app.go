package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rolodex/internal/store"
	rolodex "rolodex/lib"
	"rolodex/lib/database"
)

// bootstrap loads configuration and installs the process logger.
func bootstrap() (rolodex.Config, rolodex.Logger, error) {
	c, err := rolodex.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	l := rolodex.InitLogger(c)
	l.Debug("Configuration loaded",
		zap.String("environment", c.Environment()),
		zap.String("store", c.StoreDriver()),
		zap.String("cache", c.CacheDriver()),
	)
	return c, l, nil
}

// openStore connects the contact store selected by configuration.
func openStore(ctx context.Context, l rolodex.Logger, c rolodex.Config) (store.Store, error) {
	switch c.StoreDriver() {
	case "postgres":
		db, err := database.ConnectPostgres(ctx, l, c.DSN(), c.PoolConfig())
		if err != nil {
			return nil, err
		}
		return store.NewPostgresStore(db), nil

	case "mongo":
		db, err := database.ConnectMongo(ctx, l, c.MongoURI(), c.MongoDatabase())
		if err != nil {
			return nil, err
		}
		return store.NewMongoStore(db), nil

	case "memory":
		l.Warn("Using the in-memory store; contacts are lost on exit")
		return store.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver())
	}
}
