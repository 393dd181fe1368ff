package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"spine/internal/infrastructure/postgres"
	"spine/internal/shared/config"
	"spine/internal/shared/logger"
	"spine/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		l := logger.New("error", false)
		l.Fatal().Err(err).Msg("application error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	zerolog.DefaultContextLogger = &log
	ctx := logger.WithContext(context.Background(), log)

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, cfg.Telemetry, log)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	} else {
		log.Info().Msg("OpenTelemetry disabled")
	}

	deps, err := NewDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.DB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.MigrateUp(deps.DB, log); err != nil {
			return err
		}
	}

	handler := SetupRoutes(deps, cfg, log)
	srv, redirectSrv := StartServers(NewServerConfigFromConfig(handler, cfg), log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown requested")

	GracefulShutdown(srv, redirectSrv, 30*time.Second, log)
	return nil
}

// requestLogger is the base logger handed to the logging middleware.
func requestLogger(log zerolog.Logger) zerolog.Logger {
	return log.With().Str("component", "http").Logger()
}
