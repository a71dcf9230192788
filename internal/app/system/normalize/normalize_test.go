package normalize

import "testing"

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"  User@Example.Com  ", "user@example.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Jane Doe", "Jane Doe"},
		{"  Jane   Doe  ", "Jane Doe"},
		{"\tJANE\n", "JANE"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusAndPurchaseType(t *testing.T) {
	if got := Status(" Pending "); got != "pending" {
		t.Errorf("Status = %q", got)
	}
	if got := PurchaseType(" starter_pack"); got != "STARTER_PACK" {
		t.Errorf("PurchaseType = %q", got)
	}
}

func TestTitle_PreservesInnerText(t *testing.T) {
	if got := Title("  Year 7  Maths "); got != "Year 7  Maths" {
		t.Errorf("Title = %q", got)
	}
}

func TestFirstName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ada Lovelace", "Ada"},
		{"  Ada  ", "Ada"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := FirstName(tt.input); got != tt.want {
			t.Errorf("FirstName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
