package service

import (
	"errors"
	"fmt"
)

var (
	ErrMissingIdentity      = errors.New("event has no sender identifier")
	ErrInvalidContent       = errors.New("message content requires type and text")
	ErrInvalidAdminMessage  = errors.New("customerViberId, customerId and messageText are required")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrInvalidNotification  = errors.New("invalid notification")
	ErrDispatchFailed       = errors.New("failed to send message to Viber")
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrMissingReceiverID    = errors.New("receiver id is required")
	errUnexpectedStatusCode = errors.New("unexpected status code")
)

type ErrorKind int

const (
	KindStore ErrorKind = iota + 1
	KindMissingIdentity
)

func (k ErrorKind) String() string {
	switch k {
	case KindStore:
		return "store"
	case KindMissingIdentity:
		return "missing_identity"
	default:
		return "unknown"
	}
}

// HandlerError is returned by webhook event handlers. Kind decides how the
// router records it.
type HandlerError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &HandlerError{Kind: KindStore, Op: op, Err: err}
}

func missingIdentity(event string) error {
	return &HandlerError{Kind: KindMissingIdentity, Op: event, Err: ErrMissingIdentity}
}
