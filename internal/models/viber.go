package models

import (
	"encoding/json"
	"strings"
)

// Viber webhook event types.
const (
	EventConversationStarted = "conversation_started"
	EventMessage             = "message"
	EventSubscribed          = "subscribed"
	EventUnsubscribed        = "unsubscribed"
)

const (
	MessageTypeText  = "text"
	UnknownActorKey  = "unknown"
	UnknownActorName = "Unknown User"
)

// Token is a Viber message token. Viber sends it as a JSON number that does
// not fit a float64, so it is kept as its literal text.
type Token string

func (t *Token) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Token(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = Token(n.String())
	return nil
}

// ViberUser is the sender/user object of a webhook event.
type ViberUser struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	Language   string `json:"language,omitempty"`
	Country    string `json:"country,omitempty"`
	APIVersion int    `json:"api_version,omitempty"`
}

type InboundMessage struct {
	Type         string `json:"type"`
	Text         string `json:"text,omitempty"`
	Media        string `json:"media,omitempty"`
	TrackingData string `json:"tracking_data,omitempty"`
}

// WebhookEvent is the body Viber posts to the webhook endpoint.
type WebhookEvent struct {
	Event        string          `json:"event"`
	Timestamp    int64           `json:"timestamp,omitempty"`
	MessageToken Token           `json:"message_token,omitempty"`
	Sender       *ViberUser      `json:"sender,omitempty"`
	User         *ViberUser      `json:"user,omitempty"`
	UserID       string          `json:"user_id,omitempty"`
	Message      *InboundMessage `json:"message,omitempty"`
	Subscribed   bool            `json:"subscribed,omitempty"`
}

// Actor is the normalised participant of an event, whichever field carried it.
type Actor struct {
	ID   string
	Name string
}

// Actor returns the participant of the event. conversation_started carries it
// in "user", every other event in "sender"; unsubscribed events from Viber
// only have "user_id".
func (e *WebhookEvent) Actor() Actor {
	var u *ViberUser
	if e.Event == EventConversationStarted {
		u = e.User
	} else {
		u = e.Sender
	}
	if u != nil {
		return Actor{ID: strings.TrimSpace(u.ID), Name: u.Name}
	}
	if e.Event == EventUnsubscribed {
		return Actor{ID: strings.TrimSpace(e.UserID)}
	}
	return Actor{}
}

// RateLimitKey picks the identifier the webhook limiter is keyed on.
func (e *WebhookEvent) RateLimitKey() string {
	for _, u := range []*ViberUser{e.Sender, e.User} {
		if u != nil && strings.TrimSpace(u.ID) != "" {
			return strings.TrimSpace(u.ID)
		}
	}
	if id := strings.TrimSpace(e.UserID); id != "" {
		return id
	}
	return UnknownActorKey
}

// Text returns the inbound message text, if any.
func (e *WebhookEvent) Text() string {
	if e.Message == nil {
		return ""
	}
	return e.Message.Text
}

// Keyboard is a Viber reply keyboard.
type Keyboard struct {
	Type          string           `json:"Type"`
	DefaultHeight bool             `json:"DefaultHeight,omitempty"`
	Buttons       []KeyboardButton `json:"Buttons"`
}

type KeyboardButton struct {
	Columns    int    `json:"Columns"`
	Rows       int    `json:"Rows"`
	ActionType string `json:"ActionType"`
	ActionBody string `json:"ActionBody"`
	Text       string `json:"Text"`
	TextSize   string `json:"TextSize,omitempty"`
	TextVAlign string `json:"TextVAlign,omitempty"`
	TextHAlign string `json:"TextHAlign,omitempty"`
	BgColor    string `json:"BgColor,omitempty"`
}

type ViberSender struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// ViberSendRequest is the body of a send_message call.
type ViberSendRequest struct {
	Receiver      string       `json:"receiver"`
	Sender        *ViberSender `json:"sender,omitempty"`
	MinAPIVersion int          `json:"min_api_version,omitempty"`
	Type          string       `json:"type"`
	Text          string       `json:"text"`
	Keyboard      *Keyboard    `json:"keyboard,omitempty"`
}

// ViberSendResponse is the body Viber answers a send_message call with.
type ViberSendResponse struct {
	Status        int    `json:"status"`
	StatusMessage string `json:"status_message"`
	MessageToken  Token  `json:"message_token,omitempty"`
	ChatHostname  string `json:"chat_hostname,omitempty"`
}
