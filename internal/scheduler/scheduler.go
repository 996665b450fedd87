package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one run of a periodic job. The context is cancelled when the run
// exceeds the job interval or the scheduler stops.
type Task func(ctx context.Context) error

// Job describes what the scheduler runs and how often.
type Job struct {
	Name       string
	Interval   time.Duration
	Run        Task
	RunOnStart bool
}

// Scheduler runs a single Job on a ticker until stopped.
type Scheduler struct {
	logger    *zap.Logger
	job       Job
	stopCh    chan struct{}
	doneCh    chan struct{}
	isRunning bool
	lastRun   time.Time
	lastErr   error
	mu        sync.RWMutex
}

// NewScheduler creates a scheduler for job.
func NewScheduler(logger *zap.Logger, job Job) *Scheduler {
	if job.Name == "" {
		job.Name = "job"
	}
	return &Scheduler{
		logger: logger.With(zap.String("job", job.Name)),
		job:    job,
	}
}

// Start launches the job loop. It stops when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.job.Interval <= 0 {
		return ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrSchedulerAlreadyRunning
	}

	s.isRunning = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(ctx, s.stopCh, s.doneCh)

	s.logger.Info("Scheduler started", zap.Duration("interval", s.job.Interval))
	return nil
}

// Stop halts the loop and waits for an in-flight run to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	stopCh, doneCh := s.stopCh, s.doneCh
	s.isRunning = false
	s.mu.Unlock()

	close(stopCh)
	<-doneCh

	s.logger.Info("Scheduler stopped")
	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastRun returns when the job last finished and the error it returned.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastErr
}

func (s *Scheduler) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	defer func() {
		s.mu.Lock()
		if s.stopCh == stopCh {
			s.isRunning = false
		}
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	if s.job.RunOnStart {
		s.execute(runCtx)
	}

	ticker := time.NewTicker(s.job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler context canceled")
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.execute(runCtx)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context) {
	taskCtx, cancel := context.WithTimeout(ctx, s.job.Interval)
	defer cancel()

	err := s.job.Run(taskCtx)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Scheduled job failed", zap.Error(err))
		return
	}
	s.logger.Debug("Scheduled job completed")
}
