package models

// AdminRoom is the realtime room admin dashboards join.
const AdminRoom = "admin_room"

// Realtime event names.
const (
	RealtimeNewCustomerMessage = "new_customer_message"
	RealtimeNewSubscriber      = "new_subscriber"
	RealtimeUserUnsubscribed   = "user_unsubscribed"
	RealtimeNewAdminMessage    = "new_admin_message"
	RealtimeSystemMetrics      = "system_metrics"
	RealtimeAdminMessageError  = "admin_message_error"

	RealtimeJoinAdmin        = "join_admin"
	RealtimeAdminSendMessage = "admin_send_message"
)

type CustomerMessageEvent struct {
	CustomerID   int64    `json:"customer_id"`
	CustomerName string   `json:"customer_name"`
	ViberID      string   `json:"viber_id"`
	Message      *Message `json:"message"`
}

type SubscriberEvent struct {
	CustomerID   int64  `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	ViberID      string `json:"viber_id"`
}

// UnsubscribedEvent has a nil ViberID when the event carried no identifier.
type UnsubscribedEvent struct {
	CustomerName string  `json:"customer_name"`
	ViberID      *string `json:"viber_id"`
}

type AdminMessageEvent struct {
	CustomerID int64    `json:"customer_id"`
	ViberID    string   `json:"viber_id"`
	Message    *Message `json:"message"`
}

// AdminMessageRequest is the payload of the admin_send_message command.
type AdminMessageRequest struct {
	CustomerViberID string `json:"customerViberId"`
	CustomerID      int64  `json:"customerId"`
	MessageText     string `json:"messageText"`
}

type AdminMessageError struct {
	Error           string `json:"error"`
	CustomerViberID string `json:"customerViberId"`
	CustomerID      int64  `json:"customerId"`
}
