package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/flight-explorer/internal/config"
	"github.com/iliyamo/flight-explorer/internal/database"
	"github.com/iliyamo/flight-explorer/internal/handler"
	"github.com/iliyamo/flight-explorer/internal/middleware"
	"github.com/iliyamo/flight-explorer/internal/queue"
	"github.com/iliyamo/flight-explorer/internal/refdata"
	"github.com/iliyamo/flight-explorer/internal/repository"
	"github.com/iliyamo/flight-explorer/internal/resolver"
	"github.com/iliyamo/flight-explorer/internal/router"
	"github.com/iliyamo/flight-explorer/internal/service"
	"github.com/iliyamo/flight-explorer/internal/weather"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: .env not loaded: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSQLiteSchema(ctx, db, dialect); err != nil {
		log.Fatalf("db schema: %v", err)
	}

	store := repository.NewStore(db, dialect)
	holder := refdata.NewHolder(store)
	if _, err := holder.Refresh(ctx); err != nil {
		// Lookups answer 503 until a later refresh succeeds.
		log.Printf("refdata: initial load failed: %v", err)
	}

	var opts []resolver.Option
	if wc := config.LoadWeatherConfig(); wc.Enabled {
		opts = append(opts, resolver.WithWeather(weather.New(weather.Options{
			BaseURL:   wc.BaseURL,
			Timeout:   wc.Timeout,
			CacheTTL:  wc.CacheTTL,
			CacheSize: wc.CacheSize,
		})))
	}
	res := resolver.New(store, holder, opts...)

	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Printf("redis unavailable, cache and rate limit disabled: %v", err)
	} else {
		defer rdb.Close()
	}

	rc := config.LoadRefDataConfig()
	refresher := &service.Refresher{Snapshots: holder, Instance: instanceID()}
	if rdb != nil {
		refresher.Flush = func(ctx context.Context) (int, error) {
			return middleware.FlushCache(ctx, rdb, cacheCfg.Prefix)
		}
	}
	if rc.BroadcastOn {
		refresher.Publisher = service.AMQPPublisher{URL: rc.BroadcastURL, Exchange: rc.Exchange}
		go func() {
			err := queue.StartRefreshConsumer(ctx, queue.ConsumerOptions{
				URL:      rc.BroadcastURL,
				Exchange: rc.Exchange,
				Instance: refresher.Instance,
			}, refresher.HandleRemote)
			log.Printf("refresh-consumer: stopped: %v", err)
		}()
	}
	go holder.Run(ctx, rc.RefreshInterval)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e, holder)
	router.RegisterPublic(e,
		&handler.ReferenceHandler{Store: store, Resolver: res},
		&handler.RouteHandler{Resolver: res},
		middleware.NewTokenBucket(rlCfg, rdb),
		middleware.NewRedisCache(cacheCfg, rdb),
	)
	if cfg.JWTSecret != "" {
		router.RegisterAdmin(e, &handler.AdminHandler{Refresher: refresher}, cfg.JWTSecret)
	} else {
		log.Printf("JWT_SECRET not set; admin routes disabled")
	}

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, dialect)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func instanceID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
