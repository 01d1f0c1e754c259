package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL string
	RedisAddr   string
	ListenAddr  string
	DBTimeout   time.Duration
	LowStockKey string
}

// Load reads configuration from the environment, with defaults for everything
// except the database URL.
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("redis_addr", "inventory-redis:6379")
	v.SetDefault("db_timeout", "5s")
	v.SetDefault("low_stock_key", "alerts:low_stock")
	v.AutomaticEnv()

	cfg := Config{
		DatabaseURL: v.GetString("database_url"),
		RedisAddr:   v.GetString("redis_addr"),
		ListenAddr:  v.GetString("listen_addr"),
		DBTimeout:   v.GetDuration("db_timeout"),
		LowStockKey: v.GetString("low_stock_key"),
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("environment variable DATABASE_URL not found")
	}
	return cfg, nil
}
