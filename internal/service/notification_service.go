package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/models"
	"github.com/popeskul/pharmacy-messenger/internal/repository"
	"github.com/popeskul/pharmacy-messenger/internal/templates"
)

type notificationService struct {
	repo       repository.Repository
	dispatcher Dispatcher
	collector  *metrics.Collector
	logger     *zap.Logger
	now        func() time.Time
}

func NewNotificationService(
	repo repository.Repository,
	dispatcher Dispatcher,
	collector *metrics.Collector,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:       repo,
		dispatcher: dispatcher,
		collector:  collector,
		logger:     logger,
		now:        time.Now,
	}
}

// Send renders a pharmacy template, delivers it and records it as a system
// message.
func (s *notificationService) Send(ctx context.Context, req api.NotificationRequest) (*models.Message, error) {
	if req.CustomerId <= 0 || strings.TrimSpace(req.ViberId) == "" {
		return nil, fmt.Errorf("%w: customer_id and viber_id are required", ErrInvalidNotification)
	}

	text, err := templates.Render(string(req.Template), notificationLanguage(req.Language), notificationParams(req))
	if err != nil {
		if errors.Is(err, templates.ErrUnknownTemplate) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
		}
		return nil, err
	}

	result := s.dispatcher.Send(ctx, req.ViberId, PlainText(text))
	if !result.Success {
		s.collector.RecordViberAPIError()
		s.logger.Error("Failed to send notification",
			zap.String("template", string(req.Template)),
			zap.String("viberId", req.ViberId),
			zap.String("detail", result.Detail))
		return nil, fmt.Errorf("%w: %s", ErrDispatchFailed, result.Detail)
	}

	s.collector.RecordMessageSent()

	msg := &models.Message{
		CustomerID:  req.CustomerId,
		SenderType:  models.SenderTypeSystem,
		MessageText: text,
		CreatedAt:   s.now(),
	}
	saved, err := s.repo.Message().Create(ctx, msg)
	if err != nil {
		s.logger.Error("Failed to save notification",
			zap.Int64("customerId", req.CustomerId), zap.Error(err))
		s.collector.RecordDatabaseError()
		return msg, nil
	}

	return saved, nil
}

func notificationLanguage(lang *api.NotificationRequestLanguage) templates.Language {
	if lang == nil {
		return templates.Both
	}
	return templates.ParseLanguage(string(*lang))
}

func notificationParams(req api.NotificationRequest) templates.Params {
	p := templates.Params{TotalAmount: req.TotalAmount}
	if req.OrderId != nil {
		p.OrderID = *req.OrderId
	}
	if req.DeliveryAddress != nil {
		p.DeliveryAddress = *req.DeliveryAddress
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	return p
}
