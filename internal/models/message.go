package models

import "time"

type SenderType string

const (
	SenderTypeCustomer SenderType = "customer"
	SenderTypeSystem   SenderType = "system"
	SenderTypeAdmin    SenderType = "admin"
)

// NonTextMessageBody replaces the body of inbound messages without text.
const NonTextMessageBody = "[Non-text message]"

// Valid reports whether s is one of the known sender types.
func (s SenderType) Valid() bool {
	switch s {
	case SenderTypeCustomer, SenderTypeSystem, SenderTypeAdmin:
		return true
	default:
		return false
	}
}

// Message is an append-only conversation log entry.
type Message struct {
	ID                int64      `db:"id" json:"id"`
	CustomerID        int64      `db:"customer_id" json:"customer_id"`
	SenderType        SenderType `db:"sender_type" json:"sender_type"`
	MessageText       string     `db:"message_text" json:"message_text"`
	ViberMessageToken *string    `db:"viber_message_token" json:"viber_message_token,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}
