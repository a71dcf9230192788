package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndExpire(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two hits should pass")
	}
	if l.Allow("k") {
		t.Fatal("third hit should be limited")
	}
	if !l.Allow("other") {
		t.Fatal("keys must be independent")
	}

	now = now.Add(61 * time.Second)
	if !l.Allow("k") {
		t.Fatal("hit after window expiry should pass")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Hour)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected limit")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Fatal("expected pass after Reset")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, remote: "10.0.0.1:1234", want: "203.0.113.5"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": " 198.51.100.2 "}, remote: "10.0.0.1:1234", want: "198.51.100.2"},
		{name: "remote addr", remote: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "remote addr without port", remote: "192.0.2.1", want: "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_PerAccount(t *testing.T) {
	ll := NewLoginLimiter(4) // 2 per account
	r := httptest.NewRequest("POST", "/api/teacher/login", nil)

	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "T@Example.com"); !ok {
			t.Fatalf("attempt %d blocked", i+1)
		}
	}
	ok, reason := ll.Check(r, "t@example.com ")
	if ok || reason == "" {
		t.Fatalf("third attempt for same account should be blocked, got ok=%v", ok)
	}

	ll.Succeeded("t@example.com")
	if ok, _ := ll.Check(r, "t@example.com"); !ok {
		t.Fatal("attempt after success reset should pass")
	}
}

func TestLoginLimiter_PerIP(t *testing.T) {
	ll := NewLoginLimiter(2) // 2 per IP, 1 per account
	r := httptest.NewRequest("POST", "/api/admin/login", nil)
	r.RemoteAddr = "203.0.113.7:5000"

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if ok, reason := ll.Check(r, email); !ok {
			t.Fatalf("%s blocked: %s", email, reason)
		}
	}
	if ok, _ := ll.Check(r, "c@example.com"); ok {
		t.Fatal("third attempt from the same IP should be blocked")
	}

	other := httptest.NewRequest("POST", "/api/admin/login", nil)
	other.RemoteAddr = "198.51.100.1:5000"
	if ok, _ := ll.Check(other, "c@example.com"); !ok {
		t.Fatal("a different IP should have its own budget")
	}
}

func TestLoginLimiter_Nil(t *testing.T) {
	var ll *LoginLimiter
	if ok, _ := ll.Check(httptest.NewRequest("POST", "/", nil), "a@b.c"); !ok {
		t.Fatal("nil limiter must allow")
	}
	ll.Succeeded("a@b.c")
}
