// Package normalize canonicalizes user-supplied strings before they are
// stored or compared.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of
// whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NameCI is the case- and diacritic-folded form of Name, stored alongside
// display names for sorting.
func NameCI(s string) string {
	return text.Fold(Name(s))
}

// Status trims and lowercases a status value from a query or body.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PurchaseType trims and uppercases a purchase type.
func PurchaseType(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Title trims a course title. Titles are otherwise compared exactly.
func Title(s string) string {
	return strings.TrimSpace(s)
}

// FirstName returns the first whitespace-separated word of s, or "" when
// s is blank.
func FirstName(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
