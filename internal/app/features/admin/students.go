// internal/app/features/admin/students.go
package admin

import (
	"net/http"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
)

// ListStudents handles GET /api/admin/students.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list students")
	defer cancel()

	students, err := h.Students.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list students failed", err, "A database error occurred.")
		return
	}
	uierrors.JSON(w, http.StatusOK, students)
}
