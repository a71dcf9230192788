package indexes_test

import (
	"testing"

	"github.com/dalemusser/primementor/internal/app/system/indexes"
	"github.com/dalemusser/primementor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes on %s: %v", coll, err)
	}
	defer cur.Close(ctx)

	names := map[string]bool{}
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}
}

func TestEnsureAll_CreatesNamedIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	want := map[string][]string{
		"students":          {"uniq_students_clerk_id", "uniq_students_email", "idx_students_courses_request"},
		"class_requests":    {"idx_requests_teacher_status", "idx_requests_status_enrolled", "idx_requests_student_course"},
		"teachers":          {"uniq_teachers_email", "idx_teachers_status_nameci"},
		"booking_sync_jobs": {"idx_syncjobs_status_next", "idx_syncjobs_request"},
		"assessments":       {"idx_assessments_status_created"},
		"audit_events":      {"idx_audit_timestamp", "idx_audit_category_type_ts"},
	}
	for coll, names := range want {
		got := indexNames(t, db, coll)
		for _, n := range names {
			if !got[n] {
				t.Errorf("%s: missing index %s", coll, n)
			}
		}
	}
}

func TestEnsureAll_UniqueTeacherEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	c := db.Collection("teachers")
	if _, err := c.InsertOne(ctx, bson.M{"email": "dup@example.com"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := c.InsertOne(ctx, bson.M{"email": "dup@example.com"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Fatalf("second insert err = %v, want duplicate key", err)
	}
}

func TestEnsureAll_StudentEmailPartial(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	c := db.Collection("students")
	// Two students without email must not collide.
	if _, err := c.InsertOne(ctx, bson.M{"clerk_id": "a"}); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"clerk_id": "b"}); err != nil {
		t.Fatalf("insert b: %v", err)
	}
	_, err := c.InsertOne(ctx, bson.M{"clerk_id": "a"})
	if !mongo.IsDuplicateKeyError(err) {
		t.Fatalf("duplicate clerk_id err = %v, want duplicate key", err)
	}
}
