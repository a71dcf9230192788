// Package formutil reads request bodies for the JSON and multipart handlers.
//
// Example usage:
//
//	var in bookInput
//	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
//		h.ErrLog.LogBadRequest(w, r, "decode booking failed", err, "Invalid request body.")
//		return
//	}
package formutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrEmptyBody is returned when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON decodes one JSON value from r's body into dst, reading at most
// maxBytes. Unknown fields are ignored; trailing data is an error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("decode json: %w", err)
	}
	if dec.More() {
		return errors.New("decode json: unexpected data after object")
	}
	return nil
}

// Value returns the trimmed form value for key. The form must already be
// parsed.
func Value(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
