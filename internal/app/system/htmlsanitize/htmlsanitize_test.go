package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/primementor/internal/app/system/htmlsanitize"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "Needs help with fractions", want: "Needs help with fractions"},
		{name: "trims", in: "  hello  ", want: "hello"},
		{name: "strips tags", in: "<p><strong>Bold</strong> text</p>", want: "Bold text"},
		{name: "drops script", in: "hi<script>alert('x')</script>", want: "hi"},
		{name: "drops handlers", in: `<img src=x onerror="alert(1)">ok`, want: "ok"},
		{name: "keeps ampersand", in: "Maths & English", want: "Maths & English"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFields(t *testing.T) {
	a, b := "<b>x</b>", " y "
	htmlsanitize.Fields(&a, &b, nil)
	if a != "x" || b != "y" {
		t.Errorf("Fields gave %q, %q", a, b)
	}
}
