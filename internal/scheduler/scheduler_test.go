package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/popeskul/pharmacy-messenger/internal/scheduler"
)

func newJob(interval time.Duration, run scheduler.Task) scheduler.Job {
	return scheduler.Job{Name: "test", Interval: interval, Run: run}
}

func noop(context.Context) error { return nil }

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name           string
		setupScheduler func() *scheduler.Scheduler
		expectedError  error
	}{
		{
			name: "success",
			setupScheduler: func() *scheduler.Scheduler {
				return scheduler.NewScheduler(zap.NewNop(), newJob(100*time.Millisecond, noop))
			},
		},
		{
			name: "already running",
			setupScheduler: func() *scheduler.Scheduler {
				s := scheduler.NewScheduler(zap.NewNop(), newJob(100*time.Millisecond, noop))
				require.NoError(t, s.Start(context.Background()))
				return s
			},
			expectedError: scheduler.ErrSchedulerAlreadyRunning,
		},
		{
			name: "zero interval",
			setupScheduler: func() *scheduler.Scheduler {
				return scheduler.NewScheduler(zap.NewNop(), newJob(0, noop))
			},
			expectedError: scheduler.ErrInvalidInterval,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setupScheduler()
			defer func() {
				if s.IsRunning() {
					_ = s.Stop()
				}
			}()

			err := s.Start(context.Background())
			assert.Equal(t, tt.expectedError, err)
		})
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := scheduler.NewScheduler(zap.NewNop(), newJob(100*time.Millisecond, noop))
	assert.Equal(t, scheduler.ErrSchedulerNotRunning, s.Stop())

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	require.NoError(t, s.Start(context.Background()), "scheduler can be restarted")
	assert.NoError(t, s.Stop())
}

func TestScheduler_TaskExecution(t *testing.T) {
	tests := []struct {
		name       string
		task       scheduler.Task
		runOnStart bool
		wait       time.Duration
		minCalls   int64
		maxCalls   int64
		expectErr  bool
	}{
		{
			name:     "runs on every tick",
			task:     noop,
			wait:     230 * time.Millisecond,
			minCalls: 3,
			maxCalls: 5,
		},
		{
			name:       "runs immediately when requested",
			task:       noop,
			runOnStart: true,
			wait:       20 * time.Millisecond,
			minCalls:   1,
			maxCalls:   1,
		},
		{
			name:      "keeps running after errors",
			task:      func(context.Context) error { return errors.New("task error") },
			wait:      170 * time.Millisecond,
			minCalls:  2,
			maxCalls:  4,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int64
			s := scheduler.NewScheduler(zap.NewNop(), scheduler.Job{
				Name:       tt.name,
				Interval:   50 * time.Millisecond,
				RunOnStart: tt.runOnStart,
				Run: func(ctx context.Context) error {
					calls.Add(1)
					return tt.task(ctx)
				},
			})

			require.NoError(t, s.Start(context.Background()))
			time.Sleep(tt.wait)
			require.NoError(t, s.Stop())

			assert.GreaterOrEqual(t, calls.Load(), tt.minCalls)
			assert.LessOrEqual(t, calls.Load(), tt.maxCalls)

			last, err := s.LastRun()
			assert.False(t, last.IsZero())
			assert.Equal(t, tt.expectErr, err != nil)
		})
	}
}

func TestScheduler_TaskContextHasDeadline(t *testing.T) {
	deadlines := make(chan bool, 1)
	s := scheduler.NewScheduler(zap.NewNop(), scheduler.Job{
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			select {
			case deadlines <- ok && ctx.Err() == nil:
			default:
			}
			return nil
		},
	})

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	select {
	case ok := <-deadlines:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
}

func TestScheduler_StopCancelsRunningTask(t *testing.T) {
	started := make(chan struct{})
	s := scheduler.NewScheduler(zap.NewNop(), scheduler.Job{
		Interval:   time.Hour,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	})

	require.NoError(t, s.Start(context.Background()))
	<-started

	done := make(chan error, 1)
	go func() { done <- s.Stop() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestScheduler_ContextCancellation(t *testing.T) {
	var calls atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	s := scheduler.NewScheduler(zap.NewNop(), newJob(50*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	}))

	require.NoError(t, s.Start(ctx))
	time.Sleep(120 * time.Millisecond)
	before := calls.Load()
	assert.GreaterOrEqual(t, before, int64(2))

	cancel()
	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
	assert.LessOrEqual(t, calls.Load()-before, int64(1))
	assert.Equal(t, scheduler.ErrSchedulerNotRunning, s.Stop())
}

func TestScheduler_ConcurrentStart(t *testing.T) {
	s := scheduler.NewScheduler(zap.NewNop(), newJob(50*time.Millisecond, noop))

	var wg sync.WaitGroup
	var started atomic.Int64
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Start(context.Background()); err == nil {
				started.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), started.Load())
	assert.True(t, s.IsRunning())
	assert.NoError(t, s.Stop())
}
