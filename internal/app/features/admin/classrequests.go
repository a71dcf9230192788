// internal/app/features/admin/classrequests.go
package admin

import (
	"net/http"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/store/audit"
	"github.com/dalemusser/primementor/internal/app/system/formutil"
	"github.com/dalemusser/primementor/internal/app/system/inputval"
	"github.com/dalemusser/primementor/internal/app/system/limits"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignInput struct {
	TeacherID string `json:"teacherId" validate:"required,objectid" label:"Teacher"`
}

type linkInput struct {
	ZoomMeetingLink string `json:"zoomMeetingLink"`
}

type assignResponse struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Request     models.ClassRequest `json:"request"`
	TeacherName string              `json:"teacherName"`
}

type requestResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Request models.ClassRequest `json:"request"`
}

// ListPending handles GET /api/admin/class-requests/pending.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list pending")
	defer cancel()

	out, err := h.Booking.ListPending(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "list pending requests failed", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, out)
}

// ListAccepted handles GET /api/admin/class-requests/accepted.
func (h *Handler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list accepted")
	defer cancel()

	out, err := h.Booking.ListAccepted(ctx)
	if err != nil {
		h.ErrLog.Write(w, r, "list accepted requests failed", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, out)
}

// Assign handles PUT /api/admin/class-requests/{id}/assign.
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	reqID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in assignInput
	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode assign failed", err, "Invalid request body.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Fail(w, http.StatusBadRequest, res.First())
		return
	}
	teacherID, _ := primitive.ObjectIDFromHex(in.TeacherID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin assign teacher")
	defer cancel()

	res, err := h.Booking.Assign(ctx, reqID, teacherID)
	if err != nil {
		h.ErrLog.Write(w, r, "assign teacher failed", err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventTeacherAssigned, actorID(r), reqID.Hex(),
		map[string]string{"teacher_id": teacherID.Hex()})
	uierrors.JSON(w, http.StatusOK, assignResponse{
		Success:     true,
		Message:     "Teacher assigned successfully.",
		Request:     res.Request,
		TeacherName: res.TeacherName,
	})
}

// AttachLink handles PUT /api/admin/class-requests/{id}/link.
func (h *Handler) AttachLink(w http.ResponseWriter, r *http.Request) {
	reqID, ok := pathID(w, r)
	if !ok {
		return
	}
	var in linkInput
	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode meeting link failed", err, "Invalid request body.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin attach link")
	defer cancel()

	req, err := h.Booking.AttachLink(ctx, reqID, in.ZoomMeetingLink)
	if err != nil {
		h.ErrLog.Write(w, r, "attach meeting link failed", err)
		return
	}

	h.AuditLog.AdminAction(ctx, r, audit.EventMeetingLinkSet, actorID(r), reqID.Hex(), nil)
	uierrors.JSON(w, http.StatusOK, requestResponse{
		Success: true,
		Message: "Meeting link added successfully.",
		Request: req,
	})
}
