// Package service provides business logic implementation for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/api"
	"github.com/popeskul/pharmacy-messenger/internal/config"
)

var ErrCircuitOpen = errors.New("service unavailable: circuit breaker is open")

var breakerStates = map[gobreaker.State]api.HealthResponseCircuitBreakerState{
	gobreaker.StateClosed:   api.Closed,
	gobreaker.StateHalfOpen: api.HalfOpen,
	gobreaker.StateOpen:     api.Open,
}

// CircuitBreaker guards calls to the Viber API.
type CircuitBreaker struct {
	name   string
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewCircuitBreaker(name string, cfg *config.CircuitBreakerConfig, logger *zap.Logger) *CircuitBreaker {
	b := &CircuitBreaker{
		name:   name,
		logger: logger.With(zap.String("breaker", name)),
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     time.Duration(cfg.Interval) * time.Second,
		Timeout:      time.Duration(cfg.Timeout) * time.Second,
		ReadyToTrip:  tripPolicy(cfg.ConsecutiveFails, cfg.FailureRatio),
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(_ string, from, to gobreaker.State) {
			b.logger.Info("Circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return b
}

// tripPolicy opens the breaker after consecutiveFails failures in a row, or
// once at least consecutiveFails requests were seen and the failure ratio
// reaches ratio.
func tripPolicy(consecutiveFails uint32, ratio float64) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests == 0 {
			return false
		}
		if consecutiveFails > 0 && counts.ConsecutiveFailures >= consecutiveFails {
			return true
		}
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= consecutiveFails && failureRatio >= ratio
	}
}

// countsAsSuccess treats 4xx answers as a healthy API: a rejected receiver
// says nothing about Viber being reachable.
func countsAsSuccess(err error) bool {
	var perr *providerError
	if errors.As(err, &perr) {
		return perr.StatusCode < 500
	}
	return err == nil
}

// Execute runs fn through the breaker. A context that is already done is
// reported without touching the breaker counts.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		b.logger.Warn("Circuit breaker is open, request blocked")
		return ErrCircuitOpen
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		b.logger.Warn("Circuit breaker is probing, request blocked")
		return fmt.Errorf("%w: too many requests in half-open state", ErrCircuitOpen)
	default:
		return err
	}
}

// GetState returns the current state of the circuit breaker.
func (b *CircuitBreaker) GetState() api.HealthResponseCircuitBreakerState {
	if state, ok := breakerStates[b.cb.State()]; ok {
		return state
	}
	return api.Closed
}

// GetCounts returns the request and failure counts of the current interval.
func (b *CircuitBreaker) GetCounts() (requests, failures uint32) {
	counts := b.cb.Counts()
	return counts.Requests, counts.TotalFailures
}
