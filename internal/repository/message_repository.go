package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/popeskul/pharmacy-messenger/internal/models"
)

type messageRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{
		db:  db,
		now: time.Now,
	}
}

// Create appends a message to the conversation log and returns the stored row.
func (r *messageRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query := `
		INSERT INTO messages (customer_id, sender_type, message_text, viber_message_token, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, customer_id, sender_type, message_text, viber_message_token, created_at
	`

	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}

	var stored models.Message
	err := r.db.GetContext(ctx, &stored, query,
		msg.CustomerID, msg.SenderType, msg.MessageText, msg.ViberMessageToken, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return &stored, nil
}

// ListByCustomer returns a page of the customer's conversation, oldest first.
func (r *messageRepository) ListByCustomer(ctx context.Context, customerID int64, offset, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, customer_id, sender_type, message_text, viber_message_token, created_at
		FROM messages
		WHERE customer_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	var messages []*models.Message
	if err := r.db.SelectContext(ctx, &messages, query, customerID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) CountByCustomer(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM messages WHERE customer_id = $1`

	if err := r.db.GetContext(ctx, &count, query, customerID); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}

	return count, nil
}
