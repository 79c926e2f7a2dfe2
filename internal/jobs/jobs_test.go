package jobs_test

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"fooddelivery/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	mu         sync.Mutex
	heartbeats int
	open       int
	dropOnBeat int
}

func (f *fakeBroadcaster) Heartbeat() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.heartbeats++
	f.open -= min(f.open, f.dropOnBeat)
}

func (f *fakeBroadcaster) ConnectionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeBroadcaster) beats() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heartbeats
}

func logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestHeartbeatJob_Schedule(t *testing.T) {
	assert.Equal(t, "@every 30s", jobs.NewHeartbeatJob(&fakeBroadcaster{}, 0, logger()).Schedule())
	assert.Equal(t, "@every 5s", jobs.NewHeartbeatJob(&fakeBroadcaster{}, 5*time.Second, logger()).Schedule())
}

func TestHeartbeatJob_Run(t *testing.T) {
	b := &fakeBroadcaster{open: 3, dropOnBeat: 1}
	job := jobs.NewHeartbeatJob(b, time.Second, logger())

	job.Run()

	assert.Equal(t, 1, b.beats())
	assert.Equal(t, 2, b.ConnectionCount())
}

func TestHeartbeatJob_StartStop(t *testing.T) {
	b := &fakeBroadcaster{}
	job := jobs.NewHeartbeatJob(b, time.Second, logger())

	require.NoError(t, job.Start())
	assert.Eventually(t, func() bool { return b.beats() >= 1 }, 3*time.Second, 50*time.Millisecond)
	job.Stop()

	stopped := b.beats()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, stopped, b.beats())
}

func TestJobManager_StartAllStopAll(t *testing.T) {
	b := &fakeBroadcaster{}
	jm := jobs.NewJobManager(b, time.Second, logger())

	require.NoError(t, jm.StartAll())
	assert.Eventually(t, func() bool { return b.beats() >= 1 }, 3*time.Second, 50*time.Millisecond)
	jm.StopAll()
}
