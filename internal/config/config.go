// README: Config loader with env defaults for HTTP, stores, and lifecycle settings.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTP struct {
		Addr            string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
	}
	DB struct {
		// DSN selects the PostgreSQL stores when set; empty keeps everything in memory.
		DSN string
	}
	Redis struct {
		// Addr selects the Redis roster when set; empty keeps the roster in memory.
		Addr string
	}
	Request struct {
		// TTL is the window an unaccepted request stays SEARCHING before it expires.
		TTL time.Duration
	}
	Log struct {
		Level string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("HITCH_HTTP_ADDR", ":8080")
	cfg.HTTP.ReadTimeout = envOrDefaultDuration("HITCH_HTTP_READ_TIMEOUT", 5*time.Second)
	cfg.HTTP.WriteTimeout = envOrDefaultDuration("HITCH_HTTP_WRITE_TIMEOUT", 10*time.Second)
	cfg.HTTP.ShutdownTimeout = envOrDefaultDuration("HITCH_HTTP_SHUTDOWN_TIMEOUT", 15*time.Second)
	cfg.DB.DSN = os.Getenv("HITCH_DB_DSN")
	cfg.Redis.Addr = os.Getenv("HITCH_REDIS_ADDR")
	cfg.Request.TTL = envOrDefaultDuration("HITCH_REQUEST_TTL", 90*time.Second)
	cfg.Log.Level = envOrDefault("HITCH_LOG_LEVEL", "info")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
