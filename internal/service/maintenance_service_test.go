package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/metrics"
	"github.com/popeskul/pharmacy-messenger/internal/ratelimit"
	"github.com/popeskul/pharmacy-messenger/internal/scheduler"
	"github.com/popeskul/pharmacy-messenger/internal/service"
)

func TestMaintenanceService_StartStop(t *testing.T) {
	svc := service.NewMaintenanceService(time.Minute, ratelimit.New(10, time.Minute), metrics.NewCollector(nil), true, zap.NewNop())

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())
	assert.ErrorIs(t, svc.Start(), scheduler.ErrSchedulerAlreadyRunning)

	require.NoError(t, svc.Stop())
	assert.False(t, svc.IsRunning())
	assert.ErrorIs(t, svc.Stop(), scheduler.ErrSchedulerNotRunning)
}

func TestMaintenanceService_RunOnceCleansLimiter(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	limiter := ratelimit.New(10, time.Minute, ratelimit.WithClock(func() time.Time { return now }))
	limiter.Allow("viber-alice")
	limiter.Allow("viber-bob")
	require.Equal(t, 2, limiter.Len())

	svc := service.NewMaintenanceService(time.Minute, limiter, metrics.NewCollector(nil), false, zap.NewNop())

	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Equal(t, 2, limiter.Len(), "entries inside the window are kept")

	now = now.Add(2 * time.Minute)
	require.NoError(t, svc.RunOnce(context.Background()))
	assert.Zero(t, limiter.Len())
}

func TestMaintenanceService_RunOnceCancelled(t *testing.T) {
	svc := service.NewMaintenanceService(time.Minute, ratelimit.New(10, time.Minute), metrics.NewCollector(nil), true, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, svc.RunOnce(ctx), context.Canceled)
}
