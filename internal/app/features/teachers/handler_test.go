package teachers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/dalemusser/primementor/internal/app/booking"
	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/features/teachers"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/primementor/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type testFile struct {
	field, name, contentType, body string
}

func multipartRequest(t *testing.T, fields map[string]string, files ...testFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(f.body)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/teacher/register", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newHandler(t *testing.T, db *mongo.Database, store storage.Store) *teachers.Handler {
	t.Helper()
	logger := zap.NewNop()
	tokens, err := auth.NewTokens("test-secret", "")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	svc := booking.New(db, nil, nil, logger, booking.Config{Location: time.UTC})
	return teachers.NewHandler(db, svc, store, tokens, time.Hour, nil, uierrors.NewErrorLogger(logger), logger)
}

func registrationFields(email, password string) map[string]string {
	return map[string]string{
		"name":         "  Jane   Doe ",
		"email":        email,
		"password":     password,
		"subject":      "Mathematics",
		"mobileNumber": "0400 000 000",
	}
}

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := storage.NewMemory(storage.MemoryConfig{})
	h := newHandler(t, db, store)

	t.Run("creates pending teacher with files", func(t *testing.T) {
		req := multipartRequest(t, registrationFields("Jane@Example.com", "longenough"),
			testFile{"image", "me.png", "image/png", "png-bytes"},
			testFile{"cv", "My CV.pdf", "application/pdf", "%PDF-1.4"},
		)
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
		}
		out := testutil.DecodeJSON(t, rec)
		if out["token"] == "" {
			t.Error("missing token")
		}
		tv := out["teacher"].(map[string]any)
		if tv["email"] != "jane@example.com" || tv["name"] != "Jane Doe" {
			t.Errorf("teacher = %v", tv)
		}

		ctx, cancel := testutil.TestContext()
		defer cancel()
		stored, err := h.Teachers.GetByEmail(ctx, "jane@example.com")
		if err != nil {
			t.Fatalf("load teacher: %v", err)
		}
		if stored.Status != models.TeacherPending {
			t.Errorf("status = %q, want pending", stored.Status)
		}
		if stored.PasswordHash == "longenough" || stored.PasswordHash == "" {
			t.Error("password not hashed")
		}
		for _, p := range []string{stored.Image, stored.CVFile} {
			if p == "" {
				t.Fatal("upload path not recorded")
			}
			if ok, err := store.Exists(ctx, p); err != nil || !ok {
				t.Errorf("uploaded file %q missing: %v", p, err)
			}
		}
	})

	tests := []struct {
		name       string
		fields     map[string]string
		files      []testFile
		wantStatus int
		wantMsg    string
	}{
		{"duplicate email", registrationFields("jane@example.com", "longenough"), nil, http.StatusConflict, "Teacher already exists"},
		{"invalid email", registrationFields("jane-at-example", "longenough"), nil, http.StatusBadRequest, "Invalid email"},
		{"short password", registrationFields("new@example.com", "short"), nil, http.StatusBadRequest, "Password too short"},
		{"missing name", map[string]string{"email": "x@example.com", "password": "longenough"}, nil, http.StatusBadRequest, "Name is required."},
		{"wrong image type", registrationFields("img@example.com", "longenough"),
			[]testFile{{"image", "me.exe", "application/x-msdownload", "MZ"}}, http.StatusBadRequest, "The image file type is not supported."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Register(rec, multipartRequest(t, tt.fields, tt.files...))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if got := testutil.DecodeJSON(t, rec)["message"]; got != tt.wantMsg {
				t.Errorf("message = %v, want %q", got, tt.wantMsg)
			}
		})
	}
}

func storedObjects(t *testing.T, store storage.Store) []storage.ObjectInfo {
	t.Helper()
	res, err := store.List(context.Background(), "teachers/", nil)
	if err != nil {
		t.Fatalf("list uploads: %v", err)
	}
	return res.Objects
}

func TestRegister_RemovesUploadsOnFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	fx.CreateTeacher(ctx, "Taken", "taken@example.com", models.TeacherPending)

	tests := []struct {
		name       string
		email      string
		files      []testFile
		wantStatus int
	}{
		{
			name:  "valid image with unsupported cv",
			email: "fresh@example.com",
			files: []testFile{
				{"image", "me.png", "image/png", "png-bytes"},
				{"cv", "cv.txt", "text/plain", "plain"},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "oversized cv after image",
			email: "fresh2@example.com",
			files: []testFile{
				{"image", "me.png", "image/png", "png-bytes"},
				{"cv", "cv.pdf", "application/pdf", string(bytes.Repeat([]byte("x"), 10<<20+1))},
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "duplicate email with files",
			email: "taken@example.com",
			files: []testFile{
				{"image", "me.png", "image/png", "png-bytes"},
				{"cv", "cv.pdf", "application/pdf", "%PDF-1.4"},
			},
			wantStatus: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemory(storage.MemoryConfig{})
			h := newHandler(t, db, store)

			rec := httptest.NewRecorder()
			h.Register(rec, multipartRequest(t, registrationFields(tt.email, "longenough"), tt.files...))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if objs := storedObjects(t, store); len(objs) != 0 {
				t.Errorf("orphaned uploads: %v", objs)
			}
		})
	}
}

func TestActiveTeacher(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	teacher := fx.CreateTeacher(ctx, "Jane Doe", "jane@example.com", models.TeacherApproved)

	h := newHandler(t, db, nil)
	v := teachers.ActiveTeacher{Tokens: h.Tokens, Teachers: h.Teachers}

	tok, err := h.Tokens.Issue(*testutil.TeacherUser(teacher.ID), time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	p, err := v.Verify(ctx, tok)
	if err != nil {
		t.Fatalf("verify live teacher: %v", err)
	}
	if p.Name != "Jane Doe" {
		t.Errorf("name = %q, want refreshed from store", p.Name)
	}

	if err := h.Teachers.Delete(ctx, teacher.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := v.Verify(ctx, tok); err == nil {
		t.Fatal("deleted teacher's token still verifies")
	}
}

func TestClassRequestsAndAccept(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	mine := fx.CreateTeacher(ctx, "Mine", "mine@example.com", models.TeacherApproved)
	other := fx.CreateTeacher(ctx, "Other", "other@example.com", models.TeacherApproved)

	fx.CreateStudent(ctx, "user_1", "Jane")
	pending := fx.CreateClassRequest(ctx, "user_1", "Algebra", models.RequestPending, &mine.ID)
	fx.CreateClassRequest(ctx, "user_1", "Physics", models.RequestAccepted, &mine.ID)
	foreign := fx.CreateClassRequest(ctx, "user_1", "Chemistry", models.RequestPending, &other.ID)

	h := newHandler(t, db, nil)
	asMine := func(r *http.Request) *http.Request { return testutil.WithUser(r, testutil.TeacherUser(mine.ID)) }

	t.Run("lists own requests", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ClassRequests(rec, asMine(httptest.NewRequest(http.MethodGet, "/class-requests", nil)))
		if got := testutil.DecodeJSON(t, rec)["requests"].([]any); len(got) != 2 {
			t.Errorf("requests = %d, want 2", len(got))
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ClassRequests(rec, asMine(httptest.NewRequest(http.MethodGet, "/class-requests?status=pending", nil)))
		got := testutil.DecodeJSON(t, rec)["requests"].([]any)
		if len(got) != 1 || got[0].(map[string]any)["courseTitle"] != "Algebra" {
			t.Errorf("requests = %v", got)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ClassRequests(rec, asMine(httptest.NewRequest(http.MethodGet, "/class-requests?status=archived", nil)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("cannot accept another teacher's request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Accept(rec, testutil.WithChiURLParam(asMine(httptest.NewRequest(http.MethodPut, "/", nil)), "id", foreign.ID.Hex()))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("accepts own request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Accept(rec, testutil.WithChiURLParam(asMine(httptest.NewRequest(http.MethodPut, "/", nil)), "id", pending.ID.Hex()))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body=%s", rec.Code, rec.Body.String())
		}
		out := testutil.DecodeJSON(t, rec)
		if out["message"] != "Class request accepted" {
			t.Errorf("message = %v", out["message"])
		}
	})

	t.Run("managed classes now holds both", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ManagedClasses(rec, asMine(httptest.NewRequest(http.MethodGet, "/managed-classes", nil)))
		if got := testutil.DecodeJSON(t, rec)["classes"].([]any); len(got) != 2 {
			t.Errorf("classes = %d, want 2", len(got))
		}
	})

	t.Run("non-teacher is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ManagedClasses(rec, testutil.WithUser(httptest.NewRequest(http.MethodGet, "/", nil), testutil.AdminUser()))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRoutes_TeacherTokenRequired(t *testing.T) {
	logger := zap.NewNop()
	v := auth.VerifierFunc(func(context.Context, string) (*auth.Principal, error) {
		return testutil.AdminUser(), nil
	})
	r := teachers.Routes(&teachers.Handler{Log: logger}, v, logger)

	req := httptest.NewRequest(http.MethodGet, "/managed-classes", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
