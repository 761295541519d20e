// Command authgated runs the authentication gateway as an HTTP service:
// password login, bearer-credential verification, session management, and
// captcha issuance, backed by Redis and a SQL account store.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/panelkit/authgate"
	"github.com/panelkit/authgate/captcha"
	"github.com/panelkit/authgate/userstore"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return err
	}
	users := userstore.New(db)
	if err := users.Migrate(); err != nil {
		return err
	}

	gateway, err := authgate.New().
		WithConfig(authgate.Config{
			Secret:           []byte(cfg.Auth.Secret),
			SessionKeyPrefix: cfg.Auth.SessionKeyPrefix,
			IdentityCacheTTL: cfg.Auth.IdentityCacheTTL,
		}).
		WithRedis(rdb).
		WithUserProvider(users).
		WithLogger(logger).
		Build()
	if err != nil {
		return err
	}

	var challenges *captcha.Service
	if cfg.Captcha.Enabled {
		challenges = captcha.NewService(rdb, cfg.Captcha.Length, cfg.Captcha.TTL)
	}

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: newRouter(gateway, users, challenges, logger),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
