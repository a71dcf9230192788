package admin_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/primementor/internal/app/booking"
	"github.com/dalemusser/primementor/internal/app/features/admin"
	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	studentstore "github.com/dalemusser/primementor/internal/app/store/students"
	syncjobstore "github.com/dalemusser/primementor/internal/app/store/syncjobs"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/primementor/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) *admin.Handler {
	t.Helper()
	logger := zap.NewNop()
	svc := booking.New(db, nil, nil, logger, booking.Config{Location: time.UTC})
	return admin.NewHandler(db, svc, nil, uierrors.NewErrorLogger(logger), logger)
}

func asAdmin(r *http.Request) *http.Request {
	return testutil.WithUser(r, testutil.AdminUser())
}

func TestListStudents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	fx.CreateStudent(ctx, "user_1", "Jane")
	fx.CreateStudent(ctx, "user_2", "Sam")

	h := newHandler(t, db)
	rec := httptest.NewRecorder()
	h.ListStudents(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/students", nil)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []map[string]any
	decodeArray(t, rec, &out)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}

func TestTeachers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	approved := fx.CreateTeacher(ctx, "Alice Approved", "alice@example.com", models.TeacherApproved)
	pending := fx.CreateTeacher(ctx, "Bob Pending", "bob@example.com", models.TeacherPending)

	h := newHandler(t, db)

	t.Run("list never exposes password hash", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTeachers(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/teachers", nil)))
		var out []map[string]any
		decodeArray(t, rec, &out)
		if len(out) != 2 {
			t.Fatalf("len = %d, want 2", len(out))
		}
		for _, row := range out {
			if _, ok := row["passwordHash"]; ok {
				t.Errorf("password hash leaked: %v", row)
			}
		}
	})

	t.Run("list filtered by status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTeachers(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/teachers?status=pending", nil)))
		var out []map[string]any
		decodeArray(t, rec, &out)
		if len(out) != 1 || out[0]["name"] != "Bob Pending" {
			t.Errorf("got %v", out)
		}
	})

	t.Run("list rejects unknown status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListTeachers(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/teachers?status=retired", nil)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("get one", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := testutil.WithChiURLParam(asAdmin(httptest.NewRequest(http.MethodGet, "/", nil)), "id", approved.ID.Hex())
		h.GetTeacher(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := testutil.DecodeJSON(t, rec)["email"]; got != "alice@example.com" {
			t.Errorf("email = %v", got)
		}
	})

	t.Run("get malformed id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.GetTeacher(rec, testutil.WithChiURLParam(asAdmin(httptest.NewRequest(http.MethodGet, "/", nil)), "id", "nope"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("approve", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := testutil.WithChiURLParam(asAdmin(testutil.JSONRequest(t, http.MethodPut, "/", map[string]string{"status": "approved"})), "id", pending.ID.Hex())
		h.SetTeacherStatus(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
		}
		teacher := testutil.DecodeJSON(t, rec)["teacher"].(map[string]any)
		if teacher["status"] != models.TeacherApproved {
			t.Errorf("status = %v", teacher["status"])
		}
	})

	t.Run("delete then 404", func(t *testing.T) {
		for _, want := range []int{http.StatusOK, http.StatusNotFound} {
			rec := httptest.NewRecorder()
			req := testutil.WithChiURLParam(asAdmin(httptest.NewRequest(http.MethodDelete, "/", nil)), "id", pending.ID.Hex())
			h.DeleteTeacher(rec, req)
			if rec.Code != want {
				t.Fatalf("status = %d, want %d", rec.Code, want)
			}
		}
	})
}

func TestAssignAndLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	teacher := fx.CreateTeacher(ctx, "Jane Doe", "jane@example.com", models.TeacherApproved)

	h := newHandler(t, db)
	req, entry, err := h.Booking.Create(ctx, booking.CreateInput{
		StudentID:     "user_1",
		CourseTitle:   "Algebra Trial",
		PurchaseType:  models.PurchaseTrial,
		PreferredDate: "2026-11-02",
		PreferredTime: "10:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.Teacher != models.PendingAssignment {
		t.Fatalf("entry teacher = %q", entry.Teacher)
	}

	t.Run("link before accept conflicts", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := testutil.WithChiURLParam(asAdmin(testutil.JSONRequest(t, http.MethodPut, "/", map[string]string{"zoomMeetingLink": "https://meet/x"})), "id", req.ID.Hex())
		h.AttachLink(rec, r)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("assign with bad teacher id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := testutil.WithChiURLParam(asAdmin(testutil.JSONRequest(t, http.MethodPut, "/", map[string]string{"teacherId": "x"})), "id", req.ID.Hex())
		h.Assign(rec, r)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("assign unknown teacher", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := testutil.WithChiURLParam(asAdmin(testutil.JSONRequest(t, http.MethodPut, "/", map[string]string{"teacherId": primitive.NewObjectID().Hex()})), "id", req.ID.Hex())
		h.Assign(rec, r)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("assign", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := testutil.WithChiURLParam(asAdmin(testutil.JSONRequest(t, http.MethodPut, "/", map[string]string{"teacherId": teacher.ID.Hex()})), "id", req.ID.Hex())
		h.Assign(rec, r)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
		}
		out := testutil.DecodeJSON(t, rec)
		if out["teacherName"] != "Jane Doe" {
			t.Errorf("teacherName = %v", out["teacherName"])
		}
	})

	t.Run("second assign conflicts", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := testutil.WithChiURLParam(asAdmin(testutil.JSONRequest(t, http.MethodPut, "/", map[string]string{"teacherId": teacher.ID.Hex()})), "id", req.ID.Hex())
		h.Assign(rec, r)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("link", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := testutil.WithChiURLParam(asAdmin(testutil.JSONRequest(t, http.MethodPut, "/", map[string]string{"zoomMeetingLink": "https://meet/x"})), "id", req.ID.Hex())
		h.AttachLink(rec, r)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
		}

		st, err := studentstore.New(db).GetByClerkID(ctx, "user_1")
		if err != nil {
			t.Fatalf("load student: %v", err)
		}
		got, _ := st.FindCourse("Algebra Trial")
		if got.Status != models.EntryActive || got.Teacher != "Jane Doe" || got.ZoomMeetingURL != "https://meet/x" {
			t.Errorf("entry = %+v", got)
		}
	})

	t.Run("accepted listing joins teacher name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListAccepted(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/", nil)))
		var out []map[string]any
		decodeArray(t, rec, &out)
		if len(out) != 1 || out[0]["teacherName"] != "Jane Doe" {
			t.Errorf("got %v", out)
		}
	})
}

func TestSyncJobs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	jobs := syncjobstore.New(db)
	j, err := jobs.Enqueue(ctx, primitive.NewObjectID(), models.SyncReasonAssign)
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := jobs.MarkAttemptFailed(ctx, j, errTest, 1, time.Minute); err != nil {
		t.Fatalf("fail job: %v", err)
	}

	h := newHandler(t, db)

	rec := httptest.NewRecorder()
	h.ListSyncJobs(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/sync-jobs?status=failed", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := testutil.DecodeJSON(t, rec)["jobs"].([]any); len(got) != 1 {
		t.Fatalf("failed jobs = %d, want 1", len(got))
	}

	rec = httptest.NewRecorder()
	h.RetrySyncJobs(rec, asAdmin(httptest.NewRequest(http.MethodPost, "/sync-jobs/retry", nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := testutil.DecodeJSON(t, rec)["requeued"]; got != float64(1) {
		t.Errorf("requeued = %v, want 1", got)
	}

	rec = httptest.NewRecorder()
	h.ListSyncJobs(rec, asAdmin(httptest.NewRequest(http.MethodGet, "/sync-jobs?status=bogus", nil)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSyllabus(t *testing.T) {
	h := &admin.Handler{Log: zap.NewNop()}
	rec := httptest.NewRecorder()
	h.Syllabus(rec, httptest.NewRequest(http.MethodGet, "/syllabus", nil))

	var out []admin.SyllabusItem
	decodeArray(t, rec, &out)
	if len(out) != 3 || out[0].Subject != "Mathematics" || out[1].ActiveCourses != 6 {
		t.Errorf("syllabus = %+v", out)
	}
}
