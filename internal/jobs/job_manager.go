// Package jobs provides the scheduled background tasks of the order
// service, built on github.com/robfig/cron/v3 and coordinated through
// JobManager.
package jobs

import (
	"fmt"
	"log/slog"

	"pedidos/internal/core/application/ordersync"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	resyncJob *ResyncJob
}

// NewJobManager creates a job manager wired to the order collection.
func NewJobManager(collection *ordersync.Collection, resyncSpec string, logger *slog.Logger) *JobManager {
	return &JobManager{
		resyncJob: NewResyncJob(collection, resyncSpec, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.resyncJob.Start(); err != nil {
		return fmt.Errorf("failed to start order resync job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.resyncJob.Stop()
}
