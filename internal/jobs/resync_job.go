package jobs

import (
	"context"
	"log/slog"

	"pedidos/internal/core/application/ordersync"

	"github.com/robfig/cron/v3"
)

// DefaultResyncSpec reloads the order window once per minute.
const DefaultResyncSpec = "0 * * * * *"

// ResyncJob periodically refetches the loaded order window. The live feed
// merges most changes in place; the refetch bounds how long a missed feed
// message can leave the window stale.
type ResyncJob struct {
	collection *ordersync.Collection
	spec       string
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewResyncJob creates a resync job over the given collection. An empty
// spec falls back to DefaultResyncSpec.
func NewResyncJob(collection *ordersync.Collection, spec string, logger *slog.Logger) *ResyncJob {
	if spec == "" {
		spec = DefaultResyncSpec
	}
	return &ResyncJob{
		collection: collection,
		spec:       spec,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "resync_job"),
	}
}

// Start schedules the periodic refetch.
func (j *ResyncJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		if err := j.collection.Refetch(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Order resync failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order resync job started", "spec", j.spec)
	return nil
}

// Stop stops the resync job.
func (j *ResyncJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Order resync job stopped")
}
