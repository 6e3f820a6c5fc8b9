package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/lms_bot/internal/app"
	"github.com/Freeeeeet/lms_bot/internal/config"
	"github.com/Freeeeeet/lms_bot/internal/controller/cli"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := &cli.Runtime{}
	root := cli.NewRootCmd(rt, bootstrap)

	err := root.ExecuteContext(ctx)
	rt.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap подключается к базе и собирает сервисы
func bootstrap(ctx context.Context, rt *cli.Runtime) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	rt.OnClose(func() { _ = logger.Sync() })

	pool, err := app.OpenPool(ctx, cfg.GetDBDSN(), logger)
	if err != nil {
		return err
	}
	rt.OnClose(pool.Close)

	rt.Migrate = func(ctx context.Context) error {
		migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
		if err != nil {
			return err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			return err
		}

		version, err := migrator.Version(ctx)
		if err != nil {
			return err
		}
		logger.Info("Database schema is up to date", zap.Int64("version", version))
		return nil
	}

	rt.Services = app.NewServices(pool, cfg, nil, logger)
	return nil
}
