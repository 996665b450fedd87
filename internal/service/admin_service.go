package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/models"
	"github.com/popeskul/pharmacy-messenger/internal/repository"
)

type adminService struct {
	repo       repository.Repository
	dispatcher Dispatcher
	publisher  Publisher
	collector  *metrics.Collector
	logger     *zap.Logger
	now        func() time.Time
}

func NewAdminService(
	repo repository.Repository,
	dispatcher Dispatcher,
	publisher Publisher,
	collector *metrics.Collector,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		repo:       repo,
		dispatcher: dispatcher,
		publisher:  publisher,
		collector:  collector,
		logger:     logger,
		now:        time.Now,
	}
}

// SendAdminMessage delivers operator text verbatim. The returned message is
// the stored row, or an unsaved value when persisting failed.
func (s *adminService) SendAdminMessage(ctx context.Context, req models.AdminMessageRequest) (*models.Message, error) {
	if strings.TrimSpace(req.CustomerViberID) == "" || req.CustomerID == 0 || req.MessageText == "" {
		return nil, ErrInvalidAdminMessage
	}

	result := s.dispatcher.Send(ctx, req.CustomerViberID, PlainText(req.MessageText))
	if !result.Success {
		s.collector.RecordViberAPIError()
		s.logger.Error("Failed to send admin message",
			zap.String("viberId", req.CustomerViberID),
			zap.Int64("customerId", req.CustomerID),
			zap.String("detail", result.Detail))
		return nil, fmt.Errorf("%w: %s", ErrDispatchFailed, result.Detail)
	}

	s.collector.RecordMessageSent()

	msg := &models.Message{
		CustomerID:  req.CustomerID,
		SenderType:  models.SenderTypeAdmin,
		MessageText: req.MessageText,
		CreatedAt:   s.now(),
	}
	saved, err := s.repo.Message().Create(ctx, msg)
	if err != nil {
		s.logger.Error("Failed to save admin message",
			zap.Int64("customerId", req.CustomerID), zap.Error(err))
		s.collector.RecordDatabaseError()
		saved = msg
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, models.AdminRoom, models.RealtimeNewAdminMessage, models.AdminMessageEvent{
			CustomerID: req.CustomerID,
			ViberID:    req.CustomerViberID,
			Message:    saved,
		})
		if err != nil {
			s.logger.Warn("Failed to publish admin message", zap.Error(err))
		}
	}

	return saved, nil
}
