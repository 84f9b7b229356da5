package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/mini_shop/internal/config"
	"github.com/Skotchmaster/mini_shop/internal/db"
	"github.com/Skotchmaster/mini_shop/internal/events"
	"github.com/Skotchmaster/mini_shop/internal/httpserver"
	"github.com/Skotchmaster/mini_shop/internal/logging"
	mwauth "github.com/Skotchmaster/mini_shop/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/mini_shop/internal/middleware/logging"
	"github.com/Skotchmaster/mini_shop/internal/repo"
	"github.com/Skotchmaster/mini_shop/internal/search"
	"github.com/Skotchmaster/mini_shop/internal/service"
	"github.com/Skotchmaster/mini_shop/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var store session.Store = &session.GormStore{DB: gdb}
	var rdb *redis.Client
	if cfg.SessionStore == config.SessionStoreRedis {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		store = &session.RedisStore{Client: rdb}
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("kafka disabled", "reason", "KAFKA_BROKERS is empty")
	}

	var index search.Index = &search.GormIndex{DB: gdb}
	if cfg.ESURL != "" {
		es, err := search.NewElastic(search.ElasticConfig{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		index = es
	}

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Users: r,
		Sessions: &session.Manager{
			Store:  store,
			Secret: []byte(cfg.SessionSecret),
			TTL:    cfg.SessionTTL,
		},
		Events: publisher,
	}
	catalogSvc := &service.CatalogService{Repo: r, Index: index, Events: publisher}

	deps := &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc, EmptyListOK: cfg.EmptyListOK},
		Auth:           mwauth.New(authSvc),
		DB:             gdb,
	}
	if cfg.CartEnabled {
		deps.CartHandler = &httpserver.CartHTTP{
			Svc:         &service.CartService{Repo: r, Users: r, Products: r, Events: publisher},
			EmptyListOK: cfg.EmptyListOK,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "cart_enabled", cfg.CartEnabled, "session_store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("kafka close", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close", "error", err)
	}

	logger.Info("server stopped")
}
