package service

import (
	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/models"
)

type HealthStatus struct {
	Status               api.HealthResponseStatus              `json:"status"`
	SchedulerStatus      api.HealthResponseSchedulerStatus     `json:"scheduler_status"`
	DatabaseStatus       api.HealthResponseDatabaseStatus      `json:"database_status"`
	RedisStatus          api.HealthResponseRedisStatus         `json:"redis_status"`
	CircuitBreakerStatus string                                `json:"circuit_breaker_status,omitempty"`
	CircuitBreakerState  api.HealthResponseCircuitBreakerState `json:"circuit_breaker_state,omitempty"`
	Metrics              metrics.Snapshot                      `json:"metrics"`
}

// ToAPIMessage converts a stored message to its HTTP representation.
func ToAPIMessage(msg *models.Message) api.Message {
	return api.Message{
		Id:                msg.ID,
		CustomerId:        msg.CustomerID,
		SenderType:        api.MessageSenderType(msg.SenderType),
		MessageText:       msg.MessageText,
		ViberMessageToken: msg.ViberMessageToken,
		CreatedAt:         msg.CreatedAt,
	}
}
