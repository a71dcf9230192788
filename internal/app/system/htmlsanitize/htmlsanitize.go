// Package htmlsanitize strips markup from free text submitted by the public
// assessment form and by admins, so stored values are plain text.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every tag (and the contents of script/style elements)
// and returns the trimmed text with entities decoded.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Fields applies PlainText to each pointed-to string.
func Fields(ss ...*string) {
	for _, p := range ss {
		if p != nil {
			*p = PlainText(*p)
		}
	}
}
