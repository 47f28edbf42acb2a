package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// MonthlyPusher is the slice of RedexService the job needs.
type MonthlyPusher interface {
	PushMonthlyData(ctx context.Context) error
}

// RedexPushJob periodically reports aggregated production to the registry.
type RedexPushJob struct {
	pusher   MonthlyPusher
	interval time.Duration
	logger   *zap.Logger
}

// NewRedexPushJob returns job instance.
func NewRedexPushJob(pusher MonthlyPusher, interval time.Duration, logger *zap.Logger) *RedexPushJob {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RedexPushJob{
		pusher:   pusher,
		interval: interval,
		logger:   logger,
	}
}

// Run pushes on every tick until the context is cancelled.
func (j *RedexPushJob) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.pusher.PushMonthlyData(ctx); err != nil {
				j.logger.Warn("monthly registry push failed", zap.Error(err))
				continue
			}
			j.logger.Info("monthly registry push completed")
		}
	}
}
