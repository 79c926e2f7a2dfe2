package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// StreamStatsJob logs the number of open order streams once a minute.
type StreamStatsJob struct {
	broadcaster Heartbeater
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewStreamStatsJob creates a new job reporting stream counts.
func NewStreamStatsJob(broadcaster Heartbeater, logger *slog.Logger) *StreamStatsJob {
	return &StreamStatsJob{
		broadcaster: broadcaster,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "stream_stats_job"),
	}
}

// Start begins the stream stats job to run at the top of every minute.
func (j *StreamStatsJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		j.logger.InfoContext(context.Background(), "Open order streams", "count", j.broadcaster.ConnectionCount())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	return nil
}

// Stop stops the stream stats job.
func (j *StreamStatsJob) Stop() {
	j.cron.Stop()
}
