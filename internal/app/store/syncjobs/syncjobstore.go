package syncjobstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoneDue is returned by ClaimDue when no pending job is ready.
var ErrNoneDue = errors.New("no sync job due")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("booking_sync_jobs")}
}

// Enqueue records that the request's course entry needs reconciling.
func (s *Store) Enqueue(ctx context.Context, requestID primitive.ObjectID, reason string) (models.SyncJob, error) {
	now := time.Now().UTC()
	j := models.SyncJob{
		ID:            primitive.NewObjectID(),
		RequestID:     requestID,
		Reason:        reason,
		Status:        models.SyncPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.c.InsertOne(ctx, j); err != nil {
		return models.SyncJob{}, err
	}
	return j, nil
}

// ClaimDue takes the oldest due pending job and pushes its next attempt
// out by lease, so a second worker will not pick it up while it runs.
func (s *Store) ClaimDue(ctx context.Context, now time.Time, lease time.Duration) (models.SyncJob, error) {
	var j models.SyncJob
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"status": models.SyncPending, "next_attempt_at": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"next_attempt_at": now.Add(lease), "updated_at": now}},
		options.FindOneAndUpdate().
			SetSort(bson.D{{Key: "next_attempt_at", Value: 1}, {Key: "_id", Value: 1}}).
			SetReturnDocument(options.After),
	).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.SyncJob{}, ErrNoneDue
	}
	if err != nil {
		return models.SyncJob{}, err
	}
	return j, nil
}

// MarkDone completes one job.
func (s *Store) MarkDone(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"status": models.SyncDone, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"last_error": ""},
	})
	return err
}

// CompleteForRequest marks every pending job of the request done. It is
// called after a successful inline reconcile.
func (s *Store) CompleteForRequest(ctx context.Context, requestID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"request_id": requestID, "status": models.SyncPending},
		bson.M{"$set": bson.M{"status": models.SyncDone, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// MarkAttemptFailed records a failed attempt. The next attempt is delayed
// by attempts*backoff; once maxAttempts is reached the job is failed.
func (s *Store) MarkAttemptFailed(ctx context.Context, j models.SyncJob, cause error, maxAttempts int, backoff time.Duration) (models.SyncJob, error) {
	now := time.Now().UTC()
	j.Attempts++
	j.LastError = cause.Error()
	j.UpdatedAt = now
	if j.Attempts >= maxAttempts {
		j.Status = models.SyncFailed
	} else {
		j.NextAttemptAt = now.Add(time.Duration(j.Attempts) * backoff)
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": j.ID}, bson.M{"$set": bson.M{
		"attempts":        j.Attempts,
		"last_error":      j.LastError,
		"status":          j.Status,
		"next_attempt_at": j.NextAttemptAt,
		"updated_at":      now,
	}})
	if err != nil {
		return models.SyncJob{}, err
	}
	return j, nil
}

// List returns jobs with the given status, newest first. An empty status
// lists every job.
func (s *Store) List(ctx context.Context, status string, limit int64) ([]models.SyncJob, error) {
	if limit <= 0 {
		limit = 100
	}
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.SyncJob{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RetryFailed re-queues every failed job with a fresh attempt budget.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.SyncFailed},
		bson.M{"$set": bson.M{
			"status":          models.SyncPending,
			"attempts":        0,
			"next_attempt_at": now,
			"updated_at":      now,
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// PruneDone deletes completed jobs last touched before cutoff.
func (s *Store) PruneDone(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"status":     models.SyncDone,
		"updated_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
