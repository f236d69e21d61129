package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haschdl/casa-finan/internal/server"
	"github.com/haschdl/casa-finan/internal/session"
	"github.com/haschdl/casa-finan/pkg/constants"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configLocation := flag.String("config", constants.DefaultServerConfigFile, "path to server configuration file")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load .env when present so container deployments can skip the YAML file.
	_ = godotenv.Load()

	cfg, err := server.LoadConfig(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	if addr := os.Getenv("ADDRESS"); addr != "" {
		cfg.Address = addr
	}
	if redisAddr := os.Getenv("REDIS_ADDRESS"); redisAddr != "" {
		cfg.RedisAddress = redisAddr
	}

	logger, err := cfg.Logging.BuildLogger(*logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	store := buildSessionStore(logger, cfg)

	handler := server.NewHandler(logger, store, cfg.UploadSizeBytes(), version)

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main"),
			zap.String("address", cfg.Address),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	case sig := <-quit:
		logger.Info("shutting down",
			zap.String("op", "main"),
			zap.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown did not finish cleanly",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// buildSessionStore connects to Redis when an address is configured and falls
// back to the in-memory store otherwise. Sessions in memory do not survive a
// restart, which is fine for single-instance deployments.
func buildSessionStore(logger *zap.Logger, cfg *server.Config) session.Store {
	if cfg.RedisAddress == "" {
		logger.Info("using in-memory session store",
			zap.String("op", "main"),
		)
		return session.NewMemoryStore()
	}

	store := session.NewRedisStore(cfg.RedisAddress, cfg.SessionTTLDuration())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		logger.Fatal("failed to connect to redis",
			zap.String("op", "main"),
			zap.String("address", cfg.RedisAddress),
			zap.Error(err),
		)
	}

	logger.Info("using redis session store",
		zap.String("op", "main"),
		zap.String("address", cfg.RedisAddress),
		zap.Duration("ttl", cfg.SessionTTLDuration()),
	)
	return store
}
