package tasks

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogPruneInterval keepForDays 以天计，每小时检查一次足够
const DefaultLogPruneInterval = time.Hour

// LogPruner applies log retention limits.
type LogPruner interface {
	PruneLogs(ctx context.Context)
}

type Scheduler struct {
	logs     LogPruner
	interval time.Duration
	logger   zerolog.Logger
}

func NewScheduler(logs LogPruner, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		logs:     logs,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the background jobs; they stop when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}

	if s.logs != nil {
		go s.runWithTicker(ctx, s.interval, "log retention", s.logs.PruneLogs)
	}
}

func (s *Scheduler) runWithTicker(ctx context.Context, interval time.Duration, name string, fn func(context.Context)) {
	if interval <= 0 {
		interval = DefaultLogPruneInterval
	}

	// 启动时已清理过一次，这里只按周期执行
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.safeRun(ctx, name, fn)
		}
	}
}

func (s *Scheduler) safeRun(ctx context.Context, name string, fn func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("task", name).Interface("panic", r).Msg("task panicked")
		}
	}()
	fn(ctx)
}
