package metricsstore_test

import (
	"testing"

	metricsstore "github.com/dalemusser/primementor/internal/app/store/metrics"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/primementor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFetchCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateStudent(ctx, "user_1", "Ada")
	fx.CreateStudent(ctx, "user_2", "Bo")
	fx.CreateTeacher(ctx, "Tess", "tess@example.com", models.TeacherApproved)
	fx.CreateTeacher(ctx, "Tom", "tom@example.com", models.TeacherPending)
	fx.CreateClassRequest(ctx, "user_1", "Algebra", models.RequestPending, nil)
	fx.CreateClassRequest(ctx, "user_2", "Physics", models.RequestAccepted, nil)
	fx.CreateClassRequest(ctx, "user_2", "Chemistry", models.RequestAccepted, nil)

	if _, err := db.Collection("booking_sync_jobs").InsertOne(ctx, bson.M{"status": models.SyncFailed}); err != nil {
		t.Fatalf("insert job: %v", err)
	}

	got, err := metricsstore.FetchCounts(ctx, db)
	if err != nil {
		t.Fatalf("FetchCounts: %v", err)
	}
	want := metricsstore.Counts{
		Students:         2,
		TeachersPending:  1,
		TeachersApproved: 1,
		RequestsPending:  1,
		RequestsAccepted: 2,
		SyncJobsFailed:   1,
	}
	if got != want {
		t.Errorf("FetchCounts = %+v, want %+v", got, want)
	}
}
