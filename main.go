package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkstream/inkstream-be/internal/api"
	"github.com/inkstream/inkstream-be/internal/cache"
	"github.com/inkstream/inkstream-be/internal/config"
	"github.com/inkstream/inkstream-be/internal/database"
	"github.com/inkstream/inkstream-be/internal/logger"
	"github.com/inkstream/inkstream-be/internal/media"
	"github.com/inkstream/inkstream-be/internal/render"
	"github.com/inkstream/inkstream-be/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the media store for post images
	mediaStore, err := media.NewStore(cfg.MediaPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize media store")
	}

	// Set up the global feed cache. Redis when configured, otherwise an
	// in-process entry with a cron janitor enforcing the TTL.
	var feedCache cache.FeedCache
	janitor := cron.New()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		feedCache = cache.NewRedisFeedCache(client, cfg.FeedCacheTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Feed cache backed by Redis")
	} else {
		memCache := cache.NewMemoryFeedCache(cfg.FeedCacheTTL)
		if _, err := janitor.AddFunc("@every 1m", memCache.Sweep); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule cache janitor")
		}
		feedCache = memCache
	}
	janitor.Start()
	defer janitor.Stop()

	// Set up services
	guard := services.Guard{}
	userService := services.NewUserService(db)
	groupService := services.NewGroupService(db)
	postService := services.NewPostService(db, guard, mediaStore, feedCache)
	followService := services.NewFollowService(db, guard, userService)
	feedService := services.NewFeedService(db, userService, groupService, followService)

	// Set up router
	router := api.NewRouter(feedService, postService, followService, groupService, userService, render.JSONRenderer{}, feedCache)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
