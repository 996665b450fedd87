// Package scheduler runs periodic background jobs.
package scheduler

import "errors"

var (
	ErrSchedulerAlreadyRunning = errors.New("scheduler is already running")
	ErrSchedulerNotRunning     = errors.New("scheduler is not running")
	ErrInvalidInterval         = errors.New("scheduler interval must be positive")
)
