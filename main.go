package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"lg/macrocoach-go-api/internal/coach"
	"lg/macrocoach-go-api/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.SetPrefix("lg/macrocoach-go-api: ")

	// .env is optional in deployed environments.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}
	cfg := mustConfig()

	ctx := context.Background()
	pool := store.MustPool(ctx, cfg.DBURL)
	defer pool.Close()
	pg := store.NewPostgres(pool)

	var coachStore coach.Store = pg
	if cfg.RedisURL != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// The cache is optional; run uncached rather than refuse to start.
			log.Printf("[main] redis unavailable, state cache disabled: %v", err)
		} else {
			defer rdb.Close()
			coachStore = store.NewCached(pg, rdb, cfg.CacheTTL)
			fmt.Println("State cache ready!")
		}
	}

	h := newHandler(coachStore, pg)

	fmt.Println("Starting gin app...")
	router := gin.Default()
	router.SetTrustedProxies(nil)
	router.Use(cors.New(cfg.corsConfig()))
	h.registerRoutes(router)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
