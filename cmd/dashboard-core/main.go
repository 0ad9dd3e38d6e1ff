package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sportsight/dashboard-core/internal/api"
	"github.com/sportsight/dashboard-core/internal/config"
	"github.com/sportsight/dashboard-core/internal/navstate"
	"github.com/sportsight/dashboard-core/internal/persist"
	"github.com/sportsight/dashboard-core/internal/querycache"
	"github.com/sportsight/dashboard-core/internal/retry"
	"github.com/sportsight/dashboard-core/internal/server"
	"github.com/sportsight/dashboard-core/internal/viewmodel"
)

func main() {
	log.Println("=== dashboard-core ===")

	cfg := config.LoadConfig()

	client := api.New(cfg.API.BaseURL, api.WithRateLimit(cfg.API.RequestsPerSecond))
	log.Printf("backend: %s", cfg.API.BaseURL)

	hub := server.NewHub()

	cacheOpts := []querycache.CacheOption{
		querycache.WithStaleTime(cfg.Cache.StaleTime),
		querycache.WithRetention(cfg.Cache.Retention),
		querycache.WithRetry(
			retry.NewPolicy(cfg.API.RetryAttempts, 500*time.Millisecond),
			retryableFetchError,
		),
		querycache.WithUpdateHook(hub.BroadcastEntry),
	}

	if cfg.Cache.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.Cache.RedisURL)
		if err != nil {
			log.Fatalf("parsing REDIS_URL: %v", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("connecting to redis: %v", err)
		}
		cacheOpts = append(cacheOpts, querycache.WithSnapshotStore(persist.NewRedisStore(redisClient)))
		log.Println("snapshot tier: redis")
	}

	cache := querycache.New(cacheOpts...)
	cache.StartGC(cfg.Cache.GCInterval)
	defer cache.Close()

	nav := navstate.NewStore(navstate.Initial(time.Now()))
	svc := viewmodel.New(client, cache, nav)

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	handler := server.NewHandler(svc, hub)
	router := server.NewRouter(handler, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", cfg.Server.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("server error: %v", err)

	case sig := <-shutdown:
		log.Printf("received signal: %v", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
			if err := srv.Close(); err != nil {
				log.Fatalf("could not stop server: %v", err)
			}
		}
	}

	log.Println("shutdown complete")
}

// retryableFetchError retries transport failures only. A failure status or
// an unparseable body will not improve on a second try.
func retryableFetchError(err error) bool {
	var netErr *api.NetworkError
	return errors.As(err, &netErr)
}
