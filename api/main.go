package main

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ledgerline/inventory-core/internal/alert"
	"github.com/ledgerline/inventory-core/internal/config"
	"github.com/ledgerline/inventory-core/internal/db"
	api "github.com/ledgerline/inventory-core/internal/http"
	"github.com/ledgerline/inventory-core/internal/http/handlers"
	"github.com/ledgerline/inventory-core/internal/repo"
	"github.com/ledgerline/inventory-core/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("could not connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	database, err := db.Connect(cfg.DatabaseURL, cfg.DBTimeout)
	if err != nil {
		logger.Fatal("❌ could not connect to database", zap.Error(err))
	}
	defer database.Close()

	items := repo.NewPostgresItemRepository(database)
	movements := repo.NewPostgresMovementRepository(database)
	history := repo.NewPostgresPriceHistoryRepository(database)
	users := repo.NewPostgresUserRepository(database)

	alerts := alert.NewPublisher(rdb, cfg.LowStockKey, logger)
	identity := service.NewIdentityResolver(users, logger)

	handlers.SetStockService(service.NewStockService(items, movements, identity, alerts, logger))
	handlers.SetFinancialService(service.NewFinancialService(items, history, identity, logger))
	handlers.SetLogger(logger)

	r := api.NewRouter()
	logger.Info("✅ server running", zap.String("addr", cfg.ListenAddr))
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
