package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/ayaocrm/crm/internal/config"
	"github.com/ayaocrm/crm/internal/infra"
)

const defaultShutdownTimeout = 10 * time.Second
const defaultConnectTimeout = 5 * time.Second

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatalf("failed to build config - %v", err)
	}

	if err := infra.Migrate(migrationsFS, cfg.PostgresCfg); err != nil {
		logrus.Fatalf("failed to migrate database schema - %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultConnectTimeout)
	defer cancel()

	pgPool, err := infra.Postgresql(ctx, cfg.PostgresCfg)
	if err != nil {
		logrus.Fatalf("failed to connect to postgresql - %v", err)
	}
	defer pgPool.Close()

	redisClient, err := infra.Redis(ctx, cfg.RedisCfg)
	if err != nil {
		logrus.Fatalf("failed to connect to redis - %v", err)
	}
	defer redisClient.Close()

	services := infra.BuildServices(pgPool, redisClient, cfg)

	if err := services.Identity.EnsureAdmin(ctx); err != nil {
		logrus.Fatalf("failed to seed default administrator - %v", err)
	}

	app, err := infra.Router(services, cfg)
	if err != nil {
		logrus.Fatalf("failed to build router - %v", err)
	}

	start(app, cfg.Port)
}

func start(app *echo.Echo, port int) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		logrus.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logrus.Fatalf("failed to stop server gracefully - %v", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("shutting down the server, unexpected error occurred - %v", err)
		}
	}
}
