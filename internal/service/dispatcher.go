package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/config"
	"github.com/popeskul/pharmacy-messenger/internal/models"
)

const (
	viberAuthHeader     = "X-Viber-Auth-Token"
	maxProviderBodySize = 1 << 20
)

// Content is the payload handed to a Dispatcher: PlainText or Structured.
type Content interface {
	isContent()
}

// PlainText is sent as a bare text message.
type PlainText string

// Structured carries an explicit message type and an optional keyboard.
type Structured struct {
	Type     string
	Text     string
	Keyboard *models.Keyboard
}

func (PlainText) isContent()  {}
func (Structured) isContent() {}

// DispatchResult reports the outcome of a send. Response is set when Viber
// answered with a decodable body; Detail carries the provider error payload or
// the local error text on failure.
type DispatchResult struct {
	Success  bool
	Response *models.ViberSendResponse
	Detail   string
}

type providerError struct {
	StatusCode int
	Body       string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("%v: %d", errUnexpectedStatusCode, e.StatusCode)
}

func (e *providerError) Unwrap() error {
	return errUnexpectedStatusCode
}

type viberDispatcher struct {
	cfg            config.ViberConfig
	httpClient     *http.Client
	circuitBreaker *CircuitBreaker
	logger         *zap.Logger
}

// NewDispatcher creates the Viber send_message client. A nil httpClient gets
// one with the configured timeout.
func NewDispatcher(cfg *config.ViberConfig, httpClient *http.Client, logger *zap.Logger) Dispatcher {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		}
	}

	return &viberDispatcher{
		cfg:            *cfg,
		httpClient:     httpClient,
		circuitBreaker: NewCircuitBreaker("viber-send-message", &cfg.CircuitBreaker, logger),
		logger:         logger,
	}
}

// buildSendRequest normalises content into the provider payload.
func buildSendRequest(receiverID string, content Content) (*models.ViberSendRequest, error) {
	if receiverID == "" {
		return nil, ErrMissingReceiverID
	}

	var msgType, text string
	var keyboard *models.Keyboard
	switch c := content.(type) {
	case PlainText:
		msgType, text = models.MessageTypeText, string(c)
	case Structured:
		msgType, text, keyboard = c.Type, c.Text, c.Keyboard
	default:
		return nil, fmt.Errorf("%w: unsupported content %T", ErrInvalidContent, content)
	}

	if msgType == "" || text == "" {
		return nil, ErrInvalidContent
	}

	return &models.ViberSendRequest{
		Receiver: receiverID,
		Type:     msgType,
		Text:     text,
		Keyboard: keyboard,
	}, nil
}

// Send never returns an error; every failure is folded into the result.
func (d *viberDispatcher) Send(ctx context.Context, receiverID string, content Content) (result DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Dispatcher panic recovered", zap.Any("panic", r))
			result = DispatchResult{Detail: fmt.Sprintf("dispatcher panic: %v", r)}
		}
	}()

	req, err := buildSendRequest(receiverID, content)
	if err != nil {
		d.logger.Warn("Rejected outbound message", zap.String("receiver", receiverID), zap.Error(err))
		return DispatchResult{Detail: err.Error()}
	}
	req.MinAPIVersion = d.cfg.MinAPIVersion
	if d.cfg.SenderName != "" {
		req.Sender = &models.ViberSender{Name: d.cfg.SenderName}
	}

	var resp models.ViberSendResponse
	err = d.circuitBreaker.Execute(ctx, func() error {
		return d.post(ctx, req, &resp)
	})
	if err != nil {
		detail := err.Error()
		if perr, ok := asProviderError(err); ok && perr.Body != "" {
			detail = perr.Body
		}

		requests, failures := d.circuitBreaker.GetCounts()
		d.logger.Error("Failed to send Viber message",
			zap.String("receiver", receiverID),
			zap.Error(err),
			zap.String("circuitBreakerState", string(d.circuitBreaker.GetState())),
			zap.Uint32("totalRequests", requests),
			zap.Uint32("totalFailures", failures))

		return DispatchResult{Detail: detail}
	}

	if resp.Status != 0 {
		d.logger.Warn("Viber reported a non-zero status",
			zap.String("receiver", receiverID),
			zap.Int("status", resp.Status),
			zap.String("statusMessage", resp.StatusMessage))
	}

	return DispatchResult{Success: true, Response: &resp}
}

func (d *viberDispatcher) post(ctx context.Context, payload *models.ViberSendRequest, out *models.ViberSendResponse) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.APIURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(viberAuthHeader, d.cfg.AuthToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			d.logger.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &providerError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			d.logger.Warn("Failed to decode Viber response", zap.Error(err))
		}
	}

	return nil
}

func (d *viberDispatcher) GetCircuitBreakerStatus() (state api.HealthResponseCircuitBreakerState, requests uint32, failures uint32) {
	state = d.circuitBreaker.GetState()
	requests, failures = d.circuitBreaker.GetCounts()
	return
}

func asProviderError(err error) (*providerError, bool) {
	perr, ok := err.(*providerError)
	return perr, ok
}
