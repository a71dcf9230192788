// internal/app/features/admin/teachers.go
package admin

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/store/audit"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/formutil"
	"github.com/dalemusser/primementor/internal/app/system/limits"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

const msgTeacherNotFound = "Teacher not found."

type statusInput struct {
	Status string `json:"status"`
}

type teacherResponse struct {
	Success bool           `json:"success"`
	Teacher models.Teacher `json:"teacher"`
}

// ListTeachers handles GET /api/admin/teachers[?status=].
func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(query.Get(r, "status"))
	if status != "" && !models.IsValidTeacherStatus(status) {
		uierrors.Fail(w, http.StatusBadRequest, "Status must be pending, approved or rejected.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list teachers")
	defer cancel()

	teachers, err := h.Teachers.List(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list teachers failed", err, "A database error occurred.")
		return
	}
	uierrors.JSON(w, http.StatusOK, teachers)
}

// GetTeacher handles GET /api/admin/teachers/{id}.
func (h *Handler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin get teacher")
	defer cancel()

	t, err := h.Teachers.GetByID(ctx, id)
	if errors.Is(err, teacherstore.ErrNotFound) {
		uierrors.Fail(w, http.StatusNotFound, msgTeacherNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get teacher failed", err, "A database error occurred.")
		return
	}
	uierrors.JSON(w, http.StatusOK, t)
}

// DeleteTeacher handles DELETE /api/admin/teachers/{id}. Class requests
// that reference the teacher are left as they are.
func (h *Handler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin delete teacher")
	defer cancel()

	err := h.Teachers.Delete(ctx, id)
	if errors.Is(err, teacherstore.ErrNotFound) {
		uierrors.Fail(w, http.StatusNotFound, msgTeacherNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete teacher failed", err, "A database error occurred.")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventTeacherDeleted, actorID(r), id.Hex(), nil)
	h.Log.Info("teacher deleted", zap.String("teacher_id", id.Hex()))
	uierrors.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Teacher deleted successfully.",
	})
}

// SetTeacherStatus handles PUT /api/admin/teachers/{id}/status.
func (h *Handler) SetTeacherStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in statusInput
	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode teacher status failed", err, "Invalid request body.")
		return
	}
	status := normalize.Status(in.Status)
	if !models.IsValidTeacherStatus(status) {
		uierrors.Fail(w, http.StatusBadRequest, "Status must be pending, approved or rejected.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin set teacher status")
	defer cancel()

	t, err := h.Teachers.SetStatus(ctx, id, status)
	if errors.Is(err, teacherstore.ErrNotFound) {
		uierrors.Fail(w, http.StatusNotFound, msgTeacherNotFound)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "set teacher status failed", err, "A database error occurred.")
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventTeacherStatusChanged, actorID(r), id.Hex(),
		map[string]string{"status": status})
	uierrors.JSON(w, http.StatusOK, teacherResponse{Success: true, Teacher: t})
}
