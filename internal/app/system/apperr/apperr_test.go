package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfAndStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   Kind
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: Validation("Missing booking details"), wantKind: KindValidation, wantStatus: http.StatusBadRequest, wantMsg: "Missing booking details"},
		{name: "unauthorized", err: Unauthorized("Invalid token"), wantKind: KindUnauthorized, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid token"},
		{name: "forbidden", err: Forbidden("Not your request"), wantKind: KindForbidden, wantStatus: http.StatusForbidden, wantMsg: "Not your request"},
		{name: "not found", err: NotFound("Teacher not found"), wantKind: KindNotFound, wantStatus: http.StatusNotFound, wantMsg: "Teacher not found"},
		{name: "conflict", err: Conflict("Already booked"), wantKind: KindConflict, wantStatus: http.StatusConflict, wantMsg: "Already booked"},
		{name: "rate limited", err: RateLimited("Slow down"), wantKind: KindRateLimited, wantStatus: http.StatusTooManyRequests, wantMsg: "Slow down"},
		{name: "upstream", err: Upstream("Meeting provider failed", errors.New("dial tcp")), wantKind: KindUpstream, wantStatus: http.StatusBadGateway, wantMsg: "Meeting provider failed"},
		{name: "plain error", err: errors.New("mongo: socket closed"), wantKind: KindInternal, wantStatus: http.StatusInternalServerError, wantMsg: "Server error"},
		{name: "wrapped", err: fmt.Errorf("assign: %w", Conflict("Request not found or already processed")), wantKind: KindConflict, wantStatus: http.StatusConflict, wantMsg: "Request not found or already processed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := KindOf(tt.err)
			if k != tt.wantKind {
				t.Errorf("KindOf = %v, want %v", k, tt.wantKind)
			}
			if k.Status() != tt.wantStatus {
				t.Errorf("Status = %d, want %d", k.Status(), tt.wantStatus)
			}
			if got := Message(tt.err); got != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal(cause)
	if !errors.Is(err, cause) {
		t.Error("Internal should wrap its cause")
	}
	if !Is(err, KindInternal) {
		t.Error("Is(KindInternal) = false")
	}
	if Is(nil, KindInternal) {
		t.Error("Is(nil) = true")
	}
}
