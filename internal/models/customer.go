// Package models defines data structures used throughout the application.
package models

import "time"

// Customer is a chat participant identified by their Viber id.
type Customer struct {
	ID           int64      `db:"id" json:"id"`
	ViberID      string     `db:"viber_id" json:"viber_id"`
	Name         string     `db:"name" json:"name"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	FirstSeenAt  *time.Time `db:"first_seen_at" json:"first_seen_at,omitempty"`
	LastActiveAt time.Time  `db:"last_active_at" json:"last_active_at"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UpsertCustomerParams carries the fields written on every inbound interaction.
// FirstSeenAt only takes effect when the stored customer has none yet.
type UpsertCustomerParams struct {
	ViberID      string
	Name         string
	FirstSeenAt  *time.Time
	LastActiveAt time.Time
}
