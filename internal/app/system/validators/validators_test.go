package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/primementor/internal/app/system/validators"
	"github.com/dalemusser/primementor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_IdempotentAndCreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames: %v", err)
	}
	have := map[string]bool{}
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"students", "class_requests", "teachers", "booking_sync_jobs", "assessments", "audit_events"} {
		if !have[want] {
			t.Errorf("collection %s not created", want)
		}
	}
}

func TestClassRequestSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	c := db.Collection("class_requests")

	valid := bson.M{
		"course_id":         "c1",
		"course_title":      "Algebra",
		"student_id":        "user_1",
		"student_name":      "Ada",
		"teacher_id":        nil,
		"purchase_type":     "TRIAL",
		"status":            "pending",
		"zoom_meeting_link": "",
		"enrollment_date":   time.Now(),
	}
	if _, err := c.InsertOne(ctx, valid); err != nil {
		t.Fatalf("valid insert rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(bson.M)
	}{
		{name: "unknown status", mutate: func(d bson.M) { d["status"] = "archived" }},
		{name: "unknown purchase type", mutate: func(d bson.M) { d["purchase_type"] = "BULK" }},
		{name: "blank course title", mutate: func(d bson.M) { d["course_title"] = "   " }},
		{name: "missing student", mutate: func(d bson.M) { delete(d, "student_id") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{}
			for k, v := range valid {
				doc[k] = v
			}
			tt.mutate(doc)
			if _, err := c.InsertOne(ctx, doc); err == nil {
				t.Error("expected schema validation error")
			}
		})
	}
}

func TestStudentSchema_EntryStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	c := db.Collection("students")

	entry := bson.M{"name": "Algebra", "status": "pending", "sessions_remaining": 1}
	if _, err := c.InsertOne(ctx, bson.M{"clerk_id": "u1", "student_name": "Ada", "courses": bson.A{entry}}); err != nil {
		t.Fatalf("valid insert rejected: %v", err)
	}

	bad := bson.M{"name": "Algebra", "status": "accepted", "sessions_remaining": 1}
	if _, err := c.InsertOne(ctx, bson.M{"clerk_id": "u2", "student_name": "Bo", "courses": bson.A{bad}}); err == nil {
		t.Error("expected entry status validation error")
	}
}
