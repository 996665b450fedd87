package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/ratelimit"
	"github.com/popeskul/pharmacy-messenger/internal/scheduler"
)

const maintenanceJobName = "maintenance"

type maintenanceService struct {
	scheduler  *scheduler.Scheduler
	limiter    *ratelimit.Limiter
	collector  *metrics.Collector
	logMetrics bool
	logger     *zap.Logger
}

// NewMaintenanceService prunes idle limiter entries every interval and, when
// logMetrics is set, logs a metrics snapshot.
func NewMaintenanceService(
	interval time.Duration,
	limiter *ratelimit.Limiter,
	collector *metrics.Collector,
	logMetrics bool,
	logger *zap.Logger,
) MaintenanceService {
	s := &maintenanceService{
		limiter:    limiter,
		collector:  collector,
		logMetrics: logMetrics,
		logger:     logger,
	}
	s.scheduler = scheduler.NewScheduler(logger, scheduler.Job{
		Name:     maintenanceJobName,
		Interval: interval,
		Run:      s.RunOnce,
	})
	return s
}

func (s *maintenanceService) Start() error {
	if err := s.scheduler.Start(context.Background()); err != nil {
		return err
	}
	s.logger.Info("Maintenance started")
	return nil
}

func (s *maintenanceService) Stop() error {
	if err := s.scheduler.Stop(); err != nil {
		return err
	}
	s.logger.Info("Maintenance stopped")
	return nil
}

func (s *maintenanceService) IsRunning() bool {
	return s.scheduler.IsRunning()
}

func (s *maintenanceService) RunOnce(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	removed := s.limiter.Cleanup()
	if removed > 0 {
		s.logger.Debug("Rate limiter cleaned up", zap.Int("removed", removed), zap.Int("tracked", s.limiter.Len()))
	}

	if s.logMetrics {
		snap := s.collector.GetMetrics()
		s.logger.Info("System metrics",
			zap.Int64("webhookRequests", snap.WebhookRequests),
			zap.Int64("messagesSent", snap.MessagesSent),
			zap.Int64("databaseErrors", snap.DatabaseErrors),
			zap.Int64("viberApiErrors", snap.ViberAPIErrors),
			zap.Int64("rateLimited", snap.RateLimited),
			zap.Float64("averageResponseTimeMs", snap.AverageResponseTime),
			zap.String("uptime", snap.UptimeFormatted),
			zap.String("memory", snap.MemoryUsage.Formatted.Current))
	}

	return nil
}
