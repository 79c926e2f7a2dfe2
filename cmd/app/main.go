package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fooddelivery/cmd"
	"fooddelivery/migrations"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	configs := getConfigs()
	logger := newLogger(configs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := openDatabase(ctx, configs)

	app := cmd.NewCompositionRoot(configs, gormDB, logger)
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("shutdown finished with errors", "error", err)
		}
	}()

	if err := app.StartBackground(ctx); err != nil {
		log.Fatalf("failed to start background jobs: %v", err)
	}

	e, err := app.CreateRouter(ctx)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}
	startWebServer(ctx, app, e, configs, logger)
}

func getConfigs() cmd.Config {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}
	if err = configs.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return configs
}

func newLogger(configs cmd.Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.SlogLevel()}))
	slog.SetDefault(logger)
	return logger
}

func openDatabase(ctx context.Context, configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if configs.DBAutoMigrate {
		if err = migrations.Up(ctx, sqlDB); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}
	return gormDB
}

// startWebServer serves until ctx is cancelled, then drains in-flight
// requests within the shutdown timeout.
func startWebServer(ctx context.Context, app *cmd.CompositionRoot, e *echo.Echo, configs cmd.Config, logger *slog.Logger) {
	e.Logger.SetLevel(log.INFO)
	app.ConfigureServer(e.Server)

	go func() {
		logger.Info("http server listening", "port", configs.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
}
