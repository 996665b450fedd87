package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/models"
)

// WebhookService routes inbound Viber events. It never returns an error:
// failures are logged and counted.
type WebhookService interface {
	HandleEvent(ctx context.Context, event *models.WebhookEvent)
}

// AdminService handles messages typed by an operator on the dashboard.
type AdminService interface {
	SendAdminMessage(ctx context.Context, req models.AdminMessageRequest) (*models.Message, error)
}

type ConversationService interface {
	GetMessages(ctx context.Context, customerID int64, page, limit int) (*api.MessageListResponse, error)
	CreateMessage(ctx context.Context, req api.CreateMessageRequest) (*models.Message, error)
}

type NotificationService interface {
	Send(ctx context.Context, req api.NotificationRequest) (*models.Message, error)
}

type HealthService interface {
	GetHealth(ctx context.Context) *HealthStatus
}

type MaintenanceService interface {
	Start() error
	Stop() error
	IsRunning() bool
	RunOnce(ctx context.Context) error
}

// Dispatcher sends outbound messages to Viber.
type Dispatcher interface {
	Send(ctx context.Context, receiverID string, content Content) DispatchResult
	GetCircuitBreakerStatus() (state api.HealthResponseCircuitBreakerState, requests uint32, failures uint32)
}

// Publisher fans realtime events out to the members of a room.
type Publisher interface {
	Publish(ctx context.Context, room, event string, payload any) error
}

// TokenDeduper remembers Viber message tokens that were already processed.
type TokenDeduper interface {
	Seen(ctx context.Context, token string) (bool, error)
}
