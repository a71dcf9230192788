package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTokens(t *testing.T) *Tokens {
	t.Helper()
	tk, err := NewTokens("test-secret-test-secret-test-secret", "primementor")
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return tk
}

func TestNewTokens_EmptySecret(t *testing.T) {
	if _, err := NewTokens("", "x"); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestTokens_RoundTrip(t *testing.T) {
	tk := newTokens(t)
	in := Principal{ID: "64b7f0c2a1b2c3d4e5f60718", Name: "Jo", Email: "jo@example.com", Role: RoleTeacher}

	tok, err := tk.Issue(in, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := tk.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *got != in {
		t.Errorf("Parse = %+v, want %+v", *got, in)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tk := newTokens(t)
	other, _ := NewTokens("another-secret-another-secret-xx", "primementor")
	otherIssuer, _ := NewTokens("test-secret-test-secret-test-secret", "someone-else")

	good, _ := tk.Issue(Principal{ID: "a", Role: RoleAdmin}, time.Hour)

	tk.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := tk.Issue(Principal{ID: "a", Role: RoleAdmin}, time.Hour)
	tk.now = time.Now

	forged, _ := other.Issue(Principal{ID: "a", Role: RoleAdmin}, time.Hour)
	wrongIss, _ := otherIssuer.Issue(Principal{ID: "a", Role: RoleAdmin}, time.Hour)
	noRole, _ := tk.Issue(Principal{ID: "a"}, time.Hour)

	tests := []struct {
		name string
		tok  string
	}{
		{name: "garbage", tok: "not.a.jwt"},
		{name: "expired", tok: expired},
		{name: "wrong secret", tok: forged},
		{name: "wrong issuer", tok: wrongIss},
		{name: "missing role", tok: noRole},
		{name: "tampered", tok: good[:len(good)-2] + "xx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tk.Parse(tt.tok)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Parse err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"", "", false},
		{"Basic abc", "", false},
		{"Bearer", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		got, err := BearerToken(r)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("BearerToken(%q) = %q, %v", tt.header, got, err)
		}
	}
}

func TestRequire(t *testing.T) {
	tk := newTokens(t)
	adminTok, _ := tk.Issue(Principal{ID: "admin@example.com", Role: RoleAdmin}, time.Hour)
	teacherTok, _ := tk.Issue(Principal{ID: "t1", Role: RoleTeacher}, time.Hour)

	var seen *Principal
	h := Require(tk, zap.NewNop(), RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CurrentUser(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no token", header: "", want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + teacherTok, want: http.StatusForbidden},
		{name: "admin", header: "Bearer " + adminTok, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest("GET", "/api/admin/students", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want != http.StatusOK {
				if !strings.Contains(rec.Body.String(), `"success":false`) {
					t.Errorf("body = %s", rec.Body.String())
				}
				return
			}
			if seen == nil || seen.ID != "admin@example.com" {
				t.Errorf("principal = %+v", seen)
			}
		})
	}
}

func TestVerifierFunc(t *testing.T) {
	v := VerifierFunc(func(ctx context.Context, tok string) (*Principal, error) {
		if tok == "ok" {
			return &Principal{ID: "s1", Role: RoleStudent}, nil
		}
		return nil, ErrInvalidToken
	})
	h := Require(v, nil, RoleStudent)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer ok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
