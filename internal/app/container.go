package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lms_bot/internal/config"
	"github.com/Freeeeeet/lms_bot/internal/repository"
	"github.com/Freeeeeet/lms_bot/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Services - собранные сервисы поверх одного пула соединений
type Services struct {
	Users    *service.UserService
	Catalog  *service.CatalogService
	Grants   *service.GrantService
	Resolver *service.AccessResolver
	Progress *service.ProgressService
	Clock    service.Clock
}

// OpenPool подключается к Postgres и проверяет соединение
func OpenPool(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Connected to database",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
		zap.Int32("max_conns", poolConfig.MaxConns),
	)

	return pool, nil
}

// NewServices собирает репозитории и сервисы
func NewServices(pool *pgxpool.Pool, cfg *config.Config, clock service.Clock, logger *zap.Logger) *Services {
	if clock == nil {
		clock = service.SystemClock
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	grantRepo := repository.NewGrantRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)

	// Сервисы
	resolver := service.NewAccessResolver(grantRepo, catalogRepo, clock, logger)

	return &Services{
		Users:    service.NewUserService(userRepo, cfg.AdminTelegramIDs, logger),
		Catalog:  service.NewCatalogService(catalogRepo, logger),
		Grants:   service.NewGrantService(grantRepo, catalogRepo, userRepo, cfg.StrictGrantWindow(), clock, logger),
		Resolver: resolver,
		Progress: service.NewProgressService(progressRepo, catalogRepo, resolver, clock, logger),
		Clock:    clock,
	}
}
