package service

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/config"
	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/ratelimit"
	"github.com/popeskul/pharmacy-messenger/internal/repository"
)

type Service struct {
	Webhook      WebhookService
	Admin        AdminService
	Conversation ConversationService
	Notification NotificationService
	Maintenance  MaintenanceService
	Health       HealthService
	Dispatcher   Dispatcher
}

func NewService(
	cfg *config.Config,
	repo repository.Repository,
	redisClient *redis.Client,
	publisher Publisher,
	collector *metrics.Collector,
	limiter *ratelimit.Limiter,
	logger *zap.Logger,
) *Service {
	dispatcher := NewDispatcher(&cfg.Viber, &http.Client{
		Timeout: time.Duration(cfg.Viber.Timeout) * time.Second,
	}, logger)

	webhookOpts := []WebhookOption{}
	if redisClient != nil {
		ttl := time.Duration(cfg.Redis.TokenTTLHours) * time.Hour
		webhookOpts = append(webhookOpts, WithDeduper(NewRedisDeduper(redisClient, ttl)))
	}

	maintenance := NewMaintenanceService(
		time.Duration(cfg.Maintenance.IntervalMinutes)*time.Minute,
		limiter,
		collector,
		cfg.Maintenance.LogMetrics && !cfg.IsProduction(),
		logger,
	)

	return &Service{
		Webhook:      NewWebhookService(repo, dispatcher, publisher, limiter, collector, logger, webhookOpts...),
		Admin:        NewAdminService(repo, dispatcher, publisher, collector, logger),
		Conversation: NewConversationService(repo, collector, logger),
		Notification: NewNotificationService(repo, dispatcher, collector, logger),
		Maintenance:  maintenance,
		Health:       NewHealthService(repo, redisClient, maintenance, dispatcher, collector),
		Dispatcher:   dispatcher,
	}
}
