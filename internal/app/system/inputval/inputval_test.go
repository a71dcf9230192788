package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user+tag@sub.example.com", true},
		{"admin@localhost", true},
		{"  user@example.com  ", true},
		{"", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user..name@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://zoom.us/j/123456789", true},
		{"http://localhost:8080/meet", true},
		{"  https://example.com  ", true},
		{"", false},
		{"ftp://example.com", false},
		{"example.com", false},
		{"//example.com", false},
		{"not a url", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidHTTPURL(tt.url); got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") {
		t.Error("valid id rejected")
	}
	for _, bad := range []string{"", "12345", "507f1f77bcf86cd79943901g", "not-an-id"} {
		if IsValidObjectID(bad) {
			t.Errorf("IsValidObjectID(%q) = true", bad)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-03-14", true},
		{"2024-02-29", true},
		{"2025-02-29", false},
		{"2025-3-14", false},
		{"14/03/2025", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidDate(tt.in); got != tt.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	type input struct {
		Name     string `validate:"notblank,max=10" label:"Full name"`
		Email    string `validate:"required,mailaddr" label:"Email"`
		Kind     string `validate:"oneof=TRIAL STARTER_PACK" label:"Purchase type"`
		Sessions int    `validate:"gte=1" label:"Number of sessions"`
	}

	tests := []struct {
		name      string
		in        input
		wantFirst string
	}{
		{name: "valid", in: input{Name: "Ada", Email: "ada@example.com", Kind: "TRIAL", Sessions: 1}},
		{name: "blank name", in: input{Name: "  ", Email: "ada@example.com", Kind: "TRIAL", Sessions: 1}, wantFirst: "Full name is required."},
		{name: "long name", in: input{Name: "Ada Lovelace King", Email: "ada@example.com", Kind: "TRIAL", Sessions: 1}, wantFirst: "Full name must be at most 10 characters."},
		{name: "bad email", in: input{Name: "Ada", Email: "nope", Kind: "TRIAL", Sessions: 1}, wantFirst: "A valid email is required."},
		{name: "bad kind", in: input{Name: "Ada", Email: "ada@example.com", Kind: "BULK", Sessions: 1}, wantFirst: "Purchase type must be one of: TRIAL, STARTER_PACK."},
		{name: "zero sessions", in: input{Name: "Ada", Email: "ada@example.com", Kind: "TRIAL"}, wantFirst: "Number of sessions must be at least 1."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.in)
			if tt.wantFirst == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %s", res.All())
				}
				return
			}
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{Errors: []FieldError{{Message: "A"}, {Message: "B"}}}
	if got := r.All(); got != "A; B" {
		t.Errorf("All() = %q", got)
	}
	if (&Result{}).First() != "" {
		t.Error("First() on empty result should be empty")
	}
}
