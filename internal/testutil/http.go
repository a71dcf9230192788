package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AdminUser returns an admin principal.
func AdminUser() *auth.Principal {
	return &auth.Principal{
		ID:    "admin@test.com",
		Name:  "Admin",
		Email: "admin@test.com",
		Role:  auth.RoleAdmin,
	}
}

// TeacherUser returns a teacher principal for the given teacher id.
func TeacherUser(id primitive.ObjectID) *auth.Principal {
	return &auth.Principal{
		ID:    id.Hex(),
		Name:  "Test Teacher",
		Email: "teacher@test.com",
		Role:  auth.RoleTeacher,
	}
}

// StudentUser returns a student principal for the given identity subject.
func StudentUser(subject string) *auth.Principal {
	return &auth.Principal{
		ID:    subject,
		Name:  "Jane",
		Email: "jane@test.com",
		Role:  auth.RoleStudent,
	}
}

// WithUser attaches p to the request context as Require would.
func WithUser(r *http.Request, p *auth.Principal) *http.Request {
	return r.WithContext(auth.WithPrincipal(r.Context(), p))
}

// JSONRequest builds a request with body encoded as JSON.
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes the recorder body into a map.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}
