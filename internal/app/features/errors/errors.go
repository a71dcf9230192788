// internal/app/features/errors/errors.go
package errors

import (
	"net/http"
)

// Handler serves the router-level fallbacks.
// No DB needed; it only writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers requests that matched no route.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	Fail(w, http.StatusNotFound, "Not found")
}

// MethodNotAllowed answers requests with a known path but the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}
