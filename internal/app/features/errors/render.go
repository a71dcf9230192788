// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"
)

// failure is the body of every error response.
type failure struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail writes {"success":false,"message":msg}.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, failure{Success: false, Message: msg})
}

// RenderUnauthorized writes a 401. An empty msg uses the default.
func RenderUnauthorized(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Not authorized"
	}
	Fail(w, http.StatusUnauthorized, msg)
}

// RenderForbidden writes a 403. An empty msg uses the default.
func RenderForbidden(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "Forbidden"
	}
	Fail(w, http.StatusForbidden, msg)
}
