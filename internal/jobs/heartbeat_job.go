package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultHeartbeatInterval keeps idle streams alive behind typical proxy timeouts.
const DefaultHeartbeatInterval = 30 * time.Second

// Heartbeater is the part of realtime.Broadcaster the heartbeat job drives.
type Heartbeater interface {
	Heartbeat()
	ConnectionCount() int
}

// HeartbeatJob writes a keep-alive to every open order stream on a fixed interval.
// Connections that fail the write are dropped by the broadcaster.
type HeartbeatJob struct {
	broadcaster Heartbeater
	interval    time.Duration
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewHeartbeatJob creates the job; a non-positive interval falls back to DefaultHeartbeatInterval.
func NewHeartbeatJob(broadcaster Heartbeater, interval time.Duration, logger *slog.Logger) *HeartbeatJob {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &HeartbeatJob{
		broadcaster: broadcaster,
		interval:    interval,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "heartbeat_job"),
	}
}

// Schedule returns the cron spec the job runs on.
func (j *HeartbeatJob) Schedule() string {
	return fmt.Sprintf("@every %s", j.interval)
}

// Run sends one round of heartbeats.
func (j *HeartbeatJob) Run() {
	before := j.broadcaster.ConnectionCount()
	j.broadcaster.Heartbeat()
	if after := j.broadcaster.ConnectionCount(); after < before {
		j.logger.Debug("heartbeat dropped dead streams", "dropped", before-after, "open", after)
	}
}

// Start begins sending heartbeats.
func (j *HeartbeatJob) Start() error {
	if _, err := j.cron.AddFunc(j.Schedule(), j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Heartbeat job started", "interval", j.interval.String())
	return nil
}

// Stop stops the heartbeat job and waits for a running round to finish.
func (j *HeartbeatJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Heartbeat job stopped")
}
