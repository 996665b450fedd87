package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

const pingTimeout = 2 * time.Second

// repositoryImpl is the concrete implementation of Repository interface.
type repositoryImpl struct {
	db       *sqlx.DB
	customer CustomerRepository
	message  MessageRepository
}

// NewRepository creates a new repository instance.
func NewRepository(db *sqlx.DB) Repository {
	return &repositoryImpl{
		db:       db,
		customer: NewCustomerRepository(db),
		message:  NewMessageRepository(db),
	}
}

func (r *repositoryImpl) Customer() CustomerRepository {
	return r.customer
}

func (r *repositoryImpl) Message() MessageRepository {
	return r.message
}

// Ping checks if the database connection is healthy.
func (r *repositoryImpl) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return r.db.PingContext(ctx)
}
