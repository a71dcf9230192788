// internal/app/store/metrics/metricsstore.go
package metricsstore

import (
	"context"

	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts are the marketplace totals exported as gauges on /metrics.
type Counts struct {
	Students         int64
	TeachersPending  int64
	TeachersApproved int64
	RequestsPending  int64
	RequestsAccepted int64
	SyncJobsPending  int64
	SyncJobsFailed   int64
	AssessmentsNew   int64
}

// FetchCounts returns the current totals. It is tolerant: a failed count
// leaves that field at 0 and the first error is returned alongside.
func FetchCounts(ctx context.Context, db *mongo.Database) (Counts, error) {
	var out Counts
	var firstErr error

	count := func(dst *int64, coll string, filter bson.M) {
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		*dst = n
	}

	count(&out.Students, "students", bson.M{})
	count(&out.TeachersPending, "teachers", bson.M{"status": models.TeacherPending})
	count(&out.TeachersApproved, "teachers", bson.M{"status": models.TeacherApproved})
	count(&out.RequestsPending, "class_requests", bson.M{"status": models.RequestPending})
	count(&out.RequestsAccepted, "class_requests", bson.M{"status": models.RequestAccepted})
	count(&out.SyncJobsPending, "booking_sync_jobs", bson.M{"status": models.SyncPending})
	count(&out.SyncJobsFailed, "booking_sync_jobs", bson.M{"status": models.SyncFailed})
	count(&out.AssessmentsNew, "assessments", bson.M{"status": models.AssessmentNew})

	return out, firstErr
}
