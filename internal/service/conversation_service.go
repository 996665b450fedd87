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
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

type conversationService struct {
	repo      repository.Repository
	collector *metrics.Collector
	logger    *zap.Logger
	now       func() time.Time
}

func NewConversationService(repo repository.Repository, collector *metrics.Collector, logger *zap.Logger) ConversationService {
	return &conversationService{
		repo:      repo,
		collector: collector,
		logger:    logger,
		now:       time.Now,
	}
}

// GetMessages returns one page of a customer's history, oldest first.
func (s *conversationService) GetMessages(ctx context.Context, customerID int64, page, limit int) (*api.MessageListResponse, error) {
	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customer_id must be positive", ErrInvalidMessage)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	if _, err := s.repo.Customer().GetByID(ctx, customerID); err != nil {
		return nil, s.customerLookupError(customerID, err)
	}

	offset := (page - 1) * limit
	messages, err := s.repo.Message().ListByCustomer(ctx, customerID, offset, limit)
	if err != nil {
		s.collector.RecordDatabaseError()
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	total, err := s.repo.Message().CountByCustomer(ctx, customerID)
	if err != nil {
		s.collector.RecordDatabaseError()
		return nil, fmt.Errorf("failed to count messages: %w", err)
	}

	apiMessages := make([]api.Message, 0, len(messages))
	for _, msg := range messages {
		apiMessages = append(apiMessages, ToAPIMessage(msg))
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &api.MessageListResponse{
		Messages: apiMessages,
		Pagination: api.Pagination{
			CurrentPage:  page,
			ItemsPerPage: limit,
			TotalItems:   int(total),
			TotalPages:   totalPages,
		},
	}, nil
}

func (s *conversationService) CreateMessage(ctx context.Context, req api.CreateMessageRequest) (*models.Message, error) {
	senderType := models.SenderType(req.SenderType)
	switch {
	case req.CustomerId <= 0:
		return nil, fmt.Errorf("%w: customer_id must be positive", ErrInvalidMessage)
	case !senderType.Valid():
		return nil, fmt.Errorf("%w: unknown sender_type %q", ErrInvalidMessage, req.SenderType)
	case strings.TrimSpace(req.MessageText) == "":
		return nil, fmt.Errorf("%w: message_text is required", ErrInvalidMessage)
	}

	if _, err := s.repo.Customer().GetByID(ctx, req.CustomerId); err != nil {
		return nil, s.customerLookupError(req.CustomerId, err)
	}

	saved, err := s.repo.Message().Create(ctx, &models.Message{
		CustomerID:  req.CustomerId,
		SenderType:  senderType,
		MessageText: req.MessageText,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.collector.RecordDatabaseError()
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	s.logger.Info("Message recorded",
		zap.Int64("customerId", req.CustomerId),
		zap.String("senderType", string(senderType)))

	return saved, nil
}

func (s *conversationService) customerLookupError(customerID int64, err error) error {
	if errors.Is(err, repository.ErrCustomerNotFound) {
		return fmt.Errorf("%w: %d", ErrCustomerNotFound, customerID)
	}
	s.collector.RecordDatabaseError()
	return fmt.Errorf("failed to get customer: %w", err)
}
