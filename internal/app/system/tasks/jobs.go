// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	syncjobstore "github.com/dalemusser/primementor/internal/app/store/syncjobs"
	"github.com/dalemusser/primementor/internal/app/system/workers"
	"go.uber.org/zap"
)

// BookingSyncJob runs the booking sync worker every interval.
func BookingSyncJob(w *workers.BookingSync, interval time.Duration) Job {
	return Job{
		Name:     "booking-sync",
		Interval: interval,
		Run: func(ctx context.Context) error {
			_, err := w.RunOnce(ctx)
			return err
		},
	}
}

// SyncJobPruneJob deletes completed sync jobs older than retention.
func SyncJobPruneJob(store *syncjobstore.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "sync-job-prune",
		Interval: 1 * time.Hour,
		Timeout:  1 * time.Minute,
		Run: func(ctx context.Context) error {
			count, err := store.PruneDone(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("pruned completed sync jobs", zap.Int64("count", count))
			}
			return nil
		},
	}
}
