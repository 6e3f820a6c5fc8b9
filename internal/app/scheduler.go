package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpirySweeper переводит просроченные доступы в expired
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  ExpirySweeper
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewScheduler создаёт новый планировщик. Пустой schedule - задача не регистрируется.
func NewScheduler(sweeper ExpirySweeper, schedule string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Info("Expiry sweep disabled")
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	// Первый запуск сразу при старте
	s.sweep()

	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		s.cancel()
		return fmt.Errorf("register sweep job %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("Starting background scheduler", zap.String("schedule", s.schedule))
	return nil
}

// Stop останавливает фоновые задачи и ждёт завершения текущего запуска
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
	if s.cancel != nil {
		s.cancel()
	}
}

// sweep переводит просроченные доступы в expired
func (s *Scheduler) sweep() {
	if s.ctx.Err() != nil {
		return
	}

	count, err := s.sweeper.SweepExpired(s.ctx)
	if err != nil {
		s.logger.Error("Failed to sweep expired grants", zap.Error(err))
		return
	}

	if count > 0 {
		s.logger.Info("Expired grants swept", zap.Int64("count", count))
	} else {
		s.logger.Debug("No expired grants found")
	}
}
