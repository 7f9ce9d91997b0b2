package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"lg/macrocoach-go-api/internal/store"

	"github.com/gin-contrib/cors"
)

// config is the server configuration, read from the environment (and .env
// when present).
type config struct {
	DBURL       string
	RedisURL    string // empty disables the state cache
	CacheTTL    time.Duration
	Port        string
	CORSOrigins []string // nil means any origin
}

// loadConfig reads the server settings. getenv is os.Getenv outside tests.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		DBURL:    getenv("DB_URL"),
		RedisURL: getenv("REDIS_URL"),
		CacheTTL: store.DefaultCacheTTL,
		Port:     getenv("PORT"),
	}
	if cfg.DBURL == "" {
		return config{}, errors.New("DB_URL is required")
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if raw := getenv("STATE_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			return config{}, fmt.Errorf("invalid STATE_CACHE_TTL %q", raw)
		}
		cfg.CacheTTL = ttl
	}
	if raw := strings.TrimSpace(getenv("CORS_ORIGINS")); raw != "" && raw != "*" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	return cfg, nil
}

// corsConfig allows the web client to call the API with a bearer token.
func (cfg config) corsConfig() cors.Config {
	cc := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORSOrigins
	}
	cc.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cc.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	cc.ExposeHeaders = []string{"Content-Disposition"}
	return cc
}

func mustConfig() config {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
