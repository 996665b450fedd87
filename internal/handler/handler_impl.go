// Package handler provides HTTP request handlers for the application.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/config"
	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/middleware"
	"github.com/popeskul/pharmacy-messenger/internal/service"
)

const (
	errorCodeInvalidRequest   = "INVALID_REQUEST"
	errorCodeCustomerNotFound = "CUSTOMER_NOT_FOUND"
	errorCodeDispatchFailed   = "VIBER_DISPATCH_FAILED"
)

const (
	errorMessageInvalidBody             = "Request body must be valid JSON"
	errorMessageCustomerNotFound        = "Customer not found"
	errorMessageFailedToRetrieveHistory = "Failed to retrieve messages"
	errorMessageFailedToCreateMessage   = "Failed to create message"
	errorMessageFailedToSendNotice      = "Failed to send notification"
)

const serviceVersion = "2.0.0"

type Handler struct {
	service   *service.Service
	collector *metrics.Collector
	viber     *config.ViberConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler creates a new handler instance that implements api.ServerInterface.
func NewHandler(svc *service.Service, collector *metrics.Collector, viber *config.ViberConfig, logger *zap.Logger) api.ServerInterface {
	return &Handler{
		service:   svc,
		collector: collector,
		viber:     viber,
		logger:    logger,
		now:       time.Now,
	}
}

// GetServiceInfo implements api.ServerInterface.
func (h *Handler) GetServiceInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.ServiceInfo{
		Success:   true,
		Message:   "Pharmacy messenger backend",
		Version:   serviceVersion,
		Timestamp: h.now().UTC(),
		Endpoints: map[string]string{
			"welcome":       "/",
			"health":        "/health",
			"metrics":       "/metrics",
			"prometheus":    "/metrics/prometheus",
			"messages":      "/api/messages",
			"notifications": "/api/notifications",
			"webhook":       "/webhook",
			"realtime":      "/ws",
		},
		Features: []string{
			"Viber Bot Integration",
			"Realtime admin dashboard",
			"Bilingual Support (Myanmar/English)",
			"Performance Monitoring",
			"Rate Limiting",
		},
	})
}

// CreateMessage implements api.ServerInterface.
func (h *Handler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	var req api.CreateMessageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, errorMessageInvalidBody)
		return
	}

	msg, err := h.service.Conversation.CreateMessage(r.Context(), req)
	if err != nil {
		h.conversationError(w, r, err, errorMessageFailedToCreateMessage)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, service.ToAPIMessage(msg))
}

// GetCustomerMessages implements api.ServerInterface.
func (h *Handler) GetCustomerMessages(w http.ResponseWriter, r *http.Request, customerID int64, params api.GetCustomerMessagesParams) {
	page := 1
	limit := service.DefaultPageLimit

	if params.Page != nil && *params.Page >= 1 {
		page = *params.Page
	}

	if params.Limit != nil && *params.Limit >= 1 {
		limit = min(*params.Limit, service.MaxPageLimit)
	}

	result, err := h.service.Conversation.GetMessages(r.Context(), customerID, page, limit)
	if err != nil {
		h.conversationError(w, r, err, errorMessageFailedToRetrieveHistory)
		return
	}

	render.JSON(w, r, result)
}

// SendNotification implements api.ServerInterface.
func (h *Handler) SendNotification(w http.ResponseWriter, r *http.Request) {
	var req api.NotificationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, errorMessageInvalidBody)
		return
	}

	msg, err := h.service.Notification.Send(r.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidNotification):
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, err.Error())
		return
	case errors.Is(err, service.ErrDispatchFailed):
		h.sendError(w, r, http.StatusBadGateway, errorCodeDispatchFailed, err.Error())
		return
	default:
		h.logger.Error("Failed to send notification",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToSendNotice)
		return
	}

	render.JSON(w, r, api.NotificationResponse{
		Success: true,
		Message: service.ToAPIMessage(msg),
	})
}

// HealthCheck implements api.ServerInterface.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.GetHealth(r.Context())

	response := api.HealthResponse{
		Status:    health.Status,
		Timestamp: h.now().UTC(),
		Metrics:   &health.Metrics,
	}

	if health.SchedulerStatus != "" {
		status := health.SchedulerStatus
		response.SchedulerStatus = &status
	}

	if health.DatabaseStatus != "" {
		status := health.DatabaseStatus
		response.DatabaseStatus = &status
	}

	if health.RedisStatus != "" {
		status := health.RedisStatus
		response.RedisStatus = &status
	}

	if health.CircuitBreakerStatus != "" {
		response.CircuitBreakerStatus = &health.CircuitBreakerStatus
	}

	if health.CircuitBreakerState != "" {
		state := health.CircuitBreakerState
		response.CircuitBreakerState = &state
	}

	if health.Status == api.Unhealthy {
		render.Status(r, http.StatusServiceUnavailable)
	}

	render.JSON(w, r, response)
}

// GetMetrics implements api.ServerInterface. The snapshot fields are inlined
// next to "success".
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	body, err := flatten(h.collector.GetMetrics())
	if err != nil {
		h.logger.Error("Failed to encode metrics snapshot", zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, middleware.ErrorMessageInternal)
		return
	}
	body["success"] = true

	render.JSON(w, r, body)
}

func flatten(snapshot metrics.Snapshot) (map[string]any, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (h *Handler) conversationError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidMessage):
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, err.Error())
	case errors.Is(err, service.ErrCustomerNotFound):
		h.sendError(w, r, http.StatusNotFound, errorCodeCustomerNotFound, errorMessageCustomerNotFound)
	default:
		h.logger.Error(fallback,
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, fallback)
	}
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	t := h.now().UTC()
	render.Status(r, statusCode)
	render.JSON(w, r, api.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: &t,
	})
}
