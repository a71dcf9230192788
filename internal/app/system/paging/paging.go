// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the request names none.
const DefaultLimit = 50

// MaxLimit caps any requested page size.
const MaxLimit = 500

// Limit reads the "limit" query parameter. Missing, invalid or non-positive
// values yield def; values above MaxLimit are clamped.
func Limit(r *http.Request, def int) int64 {
	if def <= 0 {
		def = DefaultLimit
	}
	s := query.Get(r, "limit")
	if s == "" {
		return int64(def)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return int64(def)
	}
	if n > MaxLimit {
		n = MaxLimit
	}
	return int64(n)
}
