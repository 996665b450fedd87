package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/repository"
)

type healthService struct {
	repo        repository.Repository
	redisClient *redis.Client
	maintenance MaintenanceService
	dispatcher  Dispatcher
	collector   *metrics.Collector
}

func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	maintenance MaintenanceService,
	dispatcher Dispatcher,
	collector *metrics.Collector,
) HealthService {
	return &healthService{
		repo:        repo,
		redisClient: redisClient,
		maintenance: maintenance,
		dispatcher:  dispatcher,
		collector:   collector,
	}
}

func (s *healthService) GetHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:  api.Healthy,
		Metrics: s.collector.GetMetrics(),
	}

	if s.maintenance.IsRunning() {
		status.SchedulerStatus = api.HealthResponseSchedulerStatusRunning
	} else {
		status.SchedulerStatus = api.HealthResponseSchedulerStatusStopped
	}

	status.DatabaseStatus = s.checkDatabaseHealth(ctx)

	status.RedisStatus = s.checkRedisHealth(ctx)

	state, requests, failures := s.dispatcher.GetCircuitBreakerStatus()
	status.CircuitBreakerState = state
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.DatabaseStatus != api.HealthResponseDatabaseStatusConnected || status.RedisStatus != api.HealthResponseRedisStatusConnected {
		status.Status = api.Unhealthy
		return status
	}

	// Viber being unreachable does not stop webhook intake.
	if state == api.Open {
		status.Status = api.Degraded
	}

	return status
}

func (s *healthService) checkDatabaseHealth(ctx context.Context) api.HealthResponseDatabaseStatus {
	if err := s.repo.Ping(ctx); err != nil {
		return api.HealthResponseDatabaseStatusDisconnected
	}
	return api.HealthResponseDatabaseStatusConnected
}

func (s *healthService) checkRedisHealth(ctx context.Context) api.HealthResponseRedisStatus {
	if s.redisClient == nil {
		return api.HealthResponseRedisStatusDisconnected
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return api.HealthResponseRedisStatusDisconnected
	}

	return api.HealthResponseRedisStatusConnected
}
