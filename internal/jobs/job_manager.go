package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	heartbeatJob   *HeartbeatJob
	streamStatsJob *StreamStatsJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(broadcaster Heartbeater, heartbeatInterval time.Duration, logger *slog.Logger) *JobManager {
	return &JobManager{
		heartbeatJob:   NewHeartbeatJob(broadcaster, heartbeatInterval, logger),
		streamStatsJob: NewStreamStatsJob(broadcaster, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.heartbeatJob.Start(); err != nil {
		return fmt.Errorf("failed to start heartbeat job: %w", err)
	}

	if err := jm.streamStatsJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.heartbeatJob.Stop()
		return fmt.Errorf("failed to start stream stats job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.streamStatsJob.Stop()
	jm.heartbeatJob.Stop()
}
