package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/config"
	"github.com/popeskul/pharmacy-messenger/internal/handler"
	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/middleware"
	"github.com/popeskul/pharmacy-messenger/internal/models"
	"github.com/popeskul/pharmacy-messenger/internal/service"
	"github.com/popeskul/pharmacy-messenger/internal/service/mocks"
)

var createdAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newRouter(svc *service.Service, collector *metrics.Collector, viber *config.ViberConfig) http.Handler {
	if collector == nil {
		collector = metrics.NewCollector(nil)
	}
	if viber == nil {
		viber = &config.ViberConfig{}
	}
	return api.Handler(handler.NewHandler(svc, collector, viber, zap.NewNop()))
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, body []byte) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestHandler_GetServiceInfo(t *testing.T) {
	w := serve(t, newRouter(&service.Service{}, nil, nil), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.ServiceInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "/webhook", resp.Endpoints["webhook"])
	assert.Equal(t, "/ws", resp.Endpoints["realtime"])
	assert.NotEmpty(t, resp.Features)
}

func TestHandler_CreateMessage(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockConversationService)
		expectedStatus int
		expectedBody   func(*testing.T, []byte)
	}{
		{
			name: "success",
			body: `{"customer_id": 7, "sender_type": "admin", "message_text": "Your order is ready"}`,
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().CreateMessage(gomock.Any(), api.CreateMessageRequest{
					CustomerId:  7,
					SenderType:  api.CreateMessageRequestSenderTypeAdmin,
					MessageText: "Your order is ready",
				}).Return(&models.Message{
					ID:          11,
					CustomerID:  7,
					SenderType:  models.SenderTypeAdmin,
					MessageText: "Your order is ready",
					CreatedAt:   createdAt,
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody: func(t *testing.T, body []byte) {
				var resp api.Message
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, int64(11), resp.Id)
				assert.Equal(t, api.MessageSenderTypeAdmin, resp.SenderType)
				assert.Equal(t, createdAt, resp.CreatedAt.UTC())
			},
		},
		{
			name:           "malformed body",
			body:           `{"customer_id": `,
			setupMocks:     func(*mocks.MockConversationService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "INVALID_REQUEST", decodeError(t, body).Error)
			},
		},
		{
			name: "validation error",
			body: `{"customer_id": 7, "sender_type": "robot", "message_text": "hi"}`,
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: unknown sender_type", service.ErrInvalidMessage))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody: func(t *testing.T, body []byte) {
				resp := decodeError(t, body)
				assert.Equal(t, "INVALID_REQUEST", resp.Error)
				assert.Contains(t, resp.Message, "sender_type")
			},
		},
		{
			name: "unknown customer",
			body: `{"customer_id": 99, "sender_type": "admin", "message_text": "hi"}`,
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(nil, service.ErrCustomerNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody: func(t *testing.T, body []byte) {
				assert.Equal(t, "CUSTOMER_NOT_FOUND", decodeError(t, body).Error)
			},
		},
		{
			name: "store failure",
			body: `{"customer_id": 7, "sender_type": "admin", "message_text": "hi"}`,
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().CreateMessage(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody: func(t *testing.T, body []byte) {
				resp := decodeError(t, body)
				assert.Equal(t, middleware.ErrorCodeInternal, resp.Error)
				assert.Equal(t, "Failed to create message", resp.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockConversation := mocks.NewMockConversationService(ctrl)
			tt.setupMocks(mockConversation)

			router := newRouter(&service.Service{Conversation: mockConversation}, nil, nil)
			w := serve(t, router, http.MethodPost, "/api/messages", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.expectedBody(t, w.Body.Bytes())
		})
	}
}

func TestHandler_GetCustomerMessages(t *testing.T) {
	page := &api.MessageListResponse{
		Messages: []api.Message{
			{Id: 1, CustomerId: 7, SenderType: api.MessageSenderTypeCustomer, MessageText: "hello", CreatedAt: createdAt},
		},
		Pagination: api.Pagination{CurrentPage: 2, ItemsPerPage: 100, TotalItems: 101, TotalPages: 2},
	}

	tests := []struct {
		name           string
		target         string
		setupMocks     func(*mocks.MockConversationService)
		expectedStatus int
	}{
		{
			name:   "defaults",
			target: "/api/messages/7",
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().GetMessages(gomock.Any(), int64(7), 1, service.DefaultPageLimit).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "limit is capped",
			target: "/api/messages/7?page=2&limit=500",
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().GetMessages(gomock.Any(), int64(7), 2, service.MaxPageLimit).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "non-positive values fall back to defaults",
			target: "/api/messages/7?page=0&limit=0",
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().GetMessages(gomock.Any(), int64(7), 1, service.DefaultPageLimit).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-numeric customer id",
			target:         "/api/messages/abc",
			setupMocks:     func(*mocks.MockConversationService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown customer",
			target: "/api/messages/404",
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().GetMessages(gomock.Any(), int64(404), 1, service.DefaultPageLimit).
					Return(nil, service.ErrCustomerNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "store failure",
			target: "/api/messages/7",
			setupMocks: func(m *mocks.MockConversationService) {
				m.EXPECT().GetMessages(gomock.Any(), int64(7), 1, service.DefaultPageLimit).
					Return(nil, errors.New("timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockConversation := mocks.NewMockConversationService(ctrl)
			tt.setupMocks(mockConversation)

			router := newRouter(&service.Service{Conversation: mockConversation}, nil, nil)
			w := serve(t, router, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp api.MessageListResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, page.Pagination, resp.Pagination)
				require.Len(t, resp.Messages, 1)
				assert.Equal(t, "hello", resp.Messages[0].MessageText)
			}
		})
	}
}

func TestHandler_SendNotification(t *testing.T) {
	body := `{"customer_id": 7, "viber_id": "abc", "template": "order_status", "order_id": "ORD-1", "status": "shipped"}`

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockNotificationService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success",
			setupMocks: func(m *mocks.MockNotificationService) {
				m.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req api.NotificationRequest) (*models.Message, error) {
						assert.Equal(t, api.OrderStatus, req.Template)
						assert.Equal(t, "abc", req.ViberId)
						require.NotNil(t, req.OrderId)
						assert.Equal(t, "ORD-1", *req.OrderId)
						return &models.Message{
							ID:          3,
							CustomerID:  7,
							SenderType:  models.SenderTypeSystem,
							MessageText: "Order ORD-1: shipped",
							CreatedAt:   createdAt,
						}, nil
					})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown template",
			setupMocks: func(m *mocks.MockNotificationService) {
				m.EXPECT().Send(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: unknown template", service.ErrInvalidNotification))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_REQUEST",
		},
		{
			name: "provider failure",
			setupMocks: func(m *mocks.MockNotificationService) {
				m.EXPECT().Send(gomock.Any(), gomock.Any()).
					Return(nil, fmt.Errorf("%w: receiver not subscribed", service.ErrDispatchFailed))
			},
			expectedStatus: http.StatusBadGateway,
			expectedError:  "VIBER_DISPATCH_FAILED",
		},
		{
			name: "unexpected failure",
			setupMocks: func(m *mocks.MockNotificationService) {
				m.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  middleware.ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockNotification := mocks.NewMockNotificationService(ctrl)
			tt.setupMocks(mockNotification)

			router := newRouter(&service.Service{Notification: mockNotification}, nil, nil)
			w := serve(t, router, http.MethodPost, "/api/notifications", body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w.Body.Bytes()).Error)
				return
			}
			var resp api.NotificationResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
			assert.Equal(t, int64(3), resp.Message.Id)
			assert.Equal(t, api.MessageSenderTypeSystem, resp.Message.SenderType)
		})
	}
}

func TestHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name           string
		status         *service.HealthStatus
		expectedStatus int
	}{
		{
			name: "healthy",
			status: &service.HealthStatus{
				Status:               api.Healthy,
				SchedulerStatus:      api.HealthResponseSchedulerStatusRunning,
				DatabaseStatus:       api.HealthResponseDatabaseStatusConnected,
				RedisStatus:          api.HealthResponseRedisStatusConnected,
				CircuitBreakerStatus: "closed",
				CircuitBreakerState:  api.Closed,
				Metrics:              metrics.Snapshot{MessagesSent: 4},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unhealthy",
			status: &service.HealthStatus{
				Status:         api.Unhealthy,
				DatabaseStatus: api.HealthResponseDatabaseStatusDisconnected,
				RedisStatus:    api.HealthResponseRedisStatusConnected,
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name: "degraded stays available",
			status: &service.HealthStatus{
				Status:               api.Degraded,
				DatabaseStatus:       api.HealthResponseDatabaseStatusConnected,
				RedisStatus:          api.HealthResponseRedisStatusConnected,
				CircuitBreakerStatus: "open",
				CircuitBreakerState:  api.Open,
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockHealth := mocks.NewMockHealthService(ctrl)
			mockHealth.EXPECT().GetHealth(gomock.Any()).Return(tt.status)

			router := newRouter(&service.Service{Health: mockHealth}, nil, nil)
			w := serve(t, router, http.MethodGet, "/health", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			var resp api.HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.status.Status, resp.Status)
			require.NotNil(t, resp.DatabaseStatus)
			assert.Equal(t, tt.status.DatabaseStatus, *resp.DatabaseStatus)
			require.NotNil(t, resp.Metrics)
			assert.Equal(t, tt.status.Metrics.MessagesSent, resp.Metrics.MessagesSent)
			if tt.status.CircuitBreakerState != "" {
				require.NotNil(t, resp.CircuitBreakerState)
				assert.Equal(t, tt.status.CircuitBreakerState, *resp.CircuitBreakerState)
			} else {
				assert.Nil(t, resp.CircuitBreakerState)
			}
		})
	}
}

func TestHandler_GetMetrics(t *testing.T) {
	collector := metrics.NewCollector(nil)
	collector.RecordMessageSent()
	collector.RecordMessageSent()
	collector.RecordViberAPIError()

	w := serve(t, newRouter(&service.Service{}, collector, nil), http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(2), resp["messagesSent"])
	assert.Equal(t, float64(1), resp["viberApiErrors"])
	assert.Contains(t, resp, "memoryUsage")
	assert.Contains(t, resp, "uptimeFormatted")
}
