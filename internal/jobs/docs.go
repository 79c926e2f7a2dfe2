// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. HeartbeatJob - writes a keep-alive to every open order stream (default every 30 seconds)
// 2. StreamStatsJob - logs the number of open order streams at the top of every minute
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(broadcaster, cfg.HeartbeatInterval, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Heartbeat failures are handled by the broadcaster, which drops the broken
// connection. A failed job start stops any already running jobs.
package jobs
