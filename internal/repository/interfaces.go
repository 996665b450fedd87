package repository

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"

	"github.com/popeskul/pharmacy-messenger/internal/models"
)

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks database connectivity
	Ping(ctx context.Context) error

	// Customer returns customer repository
	Customer() CustomerRepository

	// Message returns message repository
	Message() MessageRepository
}

// CustomerRepository interface defines customer operations.
type CustomerRepository interface {
	Upsert(ctx context.Context, params models.UpsertCustomerParams) (*models.Customer, error)
	TouchLastActive(ctx context.Context, viberID string) error
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
}

// MessageRepository interface defines message operations.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	ListByCustomer(ctx context.Context, customerID int64, offset, limit int) ([]*models.Message, error)
	CountByCustomer(ctx context.Context, customerID int64) (int64, error)
}
