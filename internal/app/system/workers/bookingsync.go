// internal/app/system/workers/bookingsync.go
package workers

import (
	"context"
	"errors"
	"time"

	syncjobstore "github.com/dalemusser/primementor/internal/app/store/syncjobs"
	"github.com/dalemusser/primementor/internal/app/system/metrics"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Reconciler brings a class request's course entry in line with it.
type Reconciler interface {
	Reconcile(ctx context.Context, requestID primitive.ObjectID) error
}

// BookingSync works off due booking_sync_jobs.
type BookingSync struct {
	jobs        *syncjobstore.Store
	rec         Reconciler
	log         *zap.Logger
	metrics     *metrics.Metrics
	maxAttempts int
	backoff     time.Duration
	batch       int
	lease       time.Duration
}

// BookingSyncConfig tunes the worker.
type BookingSyncConfig struct {
	MaxAttempts int           // attempts before a job is failed (default 5)
	Backoff     time.Duration // delay unit between attempts (default 1m)
	Batch       int           // jobs per pass (default 50)
	Lease       time.Duration // how long a claimed job is hidden (default 2m)
}

// NewBookingSync creates the worker.
func NewBookingSync(db *mongo.Database, rec Reconciler, m *metrics.Metrics, logger *zap.Logger, cfg BookingSyncConfig) *BookingSync {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Minute
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 50
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 2 * time.Minute
	}
	return &BookingSync{
		jobs:        syncjobstore.New(db),
		rec:         rec,
		log:         logger,
		metrics:     m,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
		batch:       cfg.Batch,
		lease:       cfg.Lease,
	}
}

// PassResult counts what one pass did.
type PassResult struct {
	Done    int
	Retried int
	Failed  int
}

// RunOnce claims and reconciles up to one batch of due jobs.
func (w *BookingSync) RunOnce(ctx context.Context) (PassResult, error) {
	var res PassResult
	for i := 0; i < w.batch; i++ {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		j, err := w.jobs.ClaimDue(ctx, time.Now().UTC(), w.lease)
		if errors.Is(err, syncjobstore.ErrNoneDue) {
			break
		}
		if err != nil {
			return res, err
		}

		if err := w.rec.Reconcile(ctx, j.RequestID); err != nil {
			w.metrics.SyncFailed("worker")
			updated, merr := w.jobs.MarkAttemptFailed(ctx, j, err, w.maxAttempts, w.backoff)
			if merr != nil {
				return res, merr
			}
			if updated.Status == models.SyncFailed {
				res.Failed++
				w.log.Error("booking sync job failed permanently",
					zap.String("job_id", j.ID.Hex()),
					zap.String("request_id", j.RequestID.Hex()),
					zap.Int("attempts", updated.Attempts),
					zap.Error(err))
			} else {
				res.Retried++
			}
			continue
		}

		// Reconcile completes the request's pending jobs; this covers a job
		// that was claimed after that update ran.
		if err := w.jobs.MarkDone(ctx, j.ID); err != nil {
			return res, err
		}
		res.Done++
	}

	if res != (PassResult{}) {
		w.log.Info("booking sync pass",
			zap.Int("done", res.Done),
			zap.Int("retried", res.Retried),
			zap.Int("failed", res.Failed))
	}
	return res, nil
}
