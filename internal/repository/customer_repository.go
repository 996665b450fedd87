package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/popeskul/pharmacy-messenger/internal/models"
)

const customerColumns = `id, viber_id, COALESCE(name, '') AS name, phone, address,
	first_seen_at, last_active_at, created_at, updated_at`

type customerRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &customerRepository{
		db:  db,
		now: time.Now,
	}
}

// Upsert inserts the customer or refreshes an existing row keyed by viber_id.
// An empty name never overwrites a stored one, first_seen_at is only set once
// and last_active_at never moves backwards.
func (r *customerRepository) Upsert(ctx context.Context, params models.UpsertCustomerParams) (*models.Customer, error) {
	query := `
		INSERT INTO customers (viber_id, name, first_seen_at, last_active_at, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $5)
		ON CONFLICT (viber_id) DO UPDATE SET
		    name = COALESCE(EXCLUDED.name, customers.name),
		    first_seen_at = COALESCE(customers.first_seen_at, EXCLUDED.first_seen_at),
		    last_active_at = GREATEST(customers.last_active_at, EXCLUDED.last_active_at),
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + customerColumns

	lastActive := params.LastActiveAt
	if lastActive.IsZero() {
		lastActive = r.now()
	}

	var firstSeen sql.NullTime
	if params.FirstSeenAt != nil {
		firstSeen = sql.NullTime{Time: *params.FirstSeenAt, Valid: true}
	}

	var customer models.Customer
	err := r.db.GetContext(ctx, &customer, query, params.ViberID, params.Name, firstSeen, lastActive, r.now())
	if err != nil {
		return nil, fmt.Errorf("failed to upsert customer: %w", err)
	}

	return &customer, nil
}

// TouchLastActive bumps the activity timestamps of an existing customer.
// Unknown viber ids are not an error.
func (r *customerRepository) TouchLastActive(ctx context.Context, viberID string) error {
	query := `
		UPDATE customers
		SET last_active_at = GREATEST(last_active_at, $2),
		    updated_at = $2
		WHERE viber_id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, viberID, r.now()); err != nil {
		return fmt.Errorf("failed to update customer activity: %w", err)
	}

	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var customer models.Customer
	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}
