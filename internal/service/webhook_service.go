package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/models"
	"github.com/popeskul/pharmacy-messenger/internal/ratelimit"
	"github.com/popeskul/pharmacy-messenger/internal/repository"
)

const previewRunes = 50

type webhookService struct {
	repo       repository.Repository
	dispatcher Dispatcher
	publisher  Publisher
	deduper    TokenDeduper
	limiter    *ratelimit.Limiter
	collector  *metrics.Collector
	logger     *zap.Logger
	now        func() time.Time
}

// WebhookOption customises a webhook service.
type WebhookOption func(*webhookService)

// WithDeduper skips message events whose token was already processed.
func WithDeduper(d TokenDeduper) WebhookOption {
	return func(s *webhookService) {
		s.deduper = d
	}
}

// WithWebhookClock overrides the time source used for customer timestamps.
func WithWebhookClock(now func() time.Time) WebhookOption {
	return func(s *webhookService) {
		s.now = now
	}
}

func NewWebhookService(
	repo repository.Repository,
	dispatcher Dispatcher,
	publisher Publisher,
	limiter *ratelimit.Limiter,
	collector *metrics.Collector,
	logger *zap.Logger,
	opts ...WebhookOption,
) WebhookService {
	s := &webhookService{
		repo:       repo,
		dispatcher: dispatcher,
		publisher:  publisher,
		limiter:    limiter,
		collector:  collector,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *webhookService) HandleEvent(ctx context.Context, event *models.WebhookEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Webhook handler panic recovered", zap.Any("panic", r))
			s.collector.RecordDatabaseError()
		}
	}()

	if event == nil {
		return
	}

	actor := event.Actor()
	logger := s.logger.With(zap.String("event", event.Event), zap.String("senderId", actor.ID))
	logger.Info("Webhook received",
		zap.String("senderName", actor.Name),
		zap.String("messagePreview", preview(event.Text())),
		zap.String("messageType", messageType(event)))

	key := event.RateLimitKey()
	if !s.limiter.Allow(key) {
		logger.Warn("Rate limit exceeded", zap.String("key", key))
		s.collector.RecordRateLimited()
		return
	}

	if s.alreadyProcessed(ctx, event, logger) {
		return
	}

	var err error
	switch event.Event {
	case models.EventConversationStarted:
		err = s.handleConversationStarted(ctx, event)
	case models.EventMessage:
		err = s.handleMessage(ctx, event)
	case models.EventSubscribed:
		err = s.handleSubscribed(ctx, event)
	case models.EventUnsubscribed:
		err = s.handleUnsubscribed(ctx, event)
	default:
		logger.Info("Unhandled webhook event")
		return
	}

	if err == nil {
		return
	}

	var herr *HandlerError
	switch {
	case errors.As(err, &herr) && herr.Kind == KindMissingIdentity:
		logger.Warn("Event skipped", zap.Error(err))
	case errors.As(err, &herr) && herr.Kind == KindStore:
		logger.Error("Failed to process webhook event", zap.Error(err))
		s.collector.RecordDatabaseError()
	default:
		logger.Error("Failed to process webhook event", zap.Error(err))
	}
}

func (s *webhookService) alreadyProcessed(ctx context.Context, event *models.WebhookEvent, logger *zap.Logger) bool {
	if s.deduper == nil || event.Event != models.EventMessage || event.MessageToken == "" {
		return false
	}

	seen, err := s.deduper.Seen(ctx, string(event.MessageToken))
	if err != nil {
		logger.Warn("Message token check failed", zap.Error(err))
		return false
	}
	if seen {
		logger.Info("Duplicate message delivery skipped", zap.String("messageToken", string(event.MessageToken)))
	}
	return seen
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewRunes {
		return text
	}
	return string([]rune(text)[:previewRunes]) + "..."
}

func messageType(event *models.WebhookEvent) string {
	if event.Message == nil || event.Message.Type == "" {
		return "N/A"
	}
	return event.Message.Type
}
