package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sirpyerre/account-service/internal/api"
	"github.com/sirpyerre/account-service/internal/api/handler"
	"github.com/sirpyerre/account-service/internal/core/ports"
	"github.com/sirpyerre/account-service/internal/core/service"
	"github.com/sirpyerre/account-service/internal/infrastructure/config"
	"github.com/sirpyerre/account-service/internal/infrastructure/db/postgres"
	redisdb "github.com/sirpyerre/account-service/internal/infrastructure/db/redis"
	"github.com/sirpyerre/account-service/internal/infrastructure/db/sqlite"
	"github.com/sirpyerre/account-service/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Account store ---
	var repo ports.UserRepository
	var store handler.Pinger

	switch cfg.DB.Driver {
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.DB.SQLitePath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open sqlite database")
		}
		defer db.Close()
		repo = sqlite.NewUserRepository(db)
		store = db
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.DB.PostgresDSN, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer db.Close()
		repo = postgres.NewUserRepository(db)
		store = db
	default:
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("unknown DB_DRIVER")
	}

	// --- Optional Redis projection cache ---
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		repo = redisdb.NewCachedUserRepository(repo, rdb, log)
	}

	// --- Services and router ---
	userService := service.NewUserService(repo, log)
	authService := service.NewAuthService(userService, repo, cfg.JWTSecret, cfg.TokenTTL)

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		UserService: userService,
		Store:       store,
		Redis:       rdb,
		JWTSecret:   cfg.JWTSecret,
		Logger:      log,
	})

	// --- Serve with graceful shutdown ---
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
