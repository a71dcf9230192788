// internal/app/features/teachers/classes.go
package teachers

import (
	"net/http"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/system/authz"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgNotAuthenticated = "Teacher not authenticated"

type requestsResponse struct {
	Success  bool                  `json:"success"`
	Requests []models.ClassRequest `json:"requests"`
}

type classesResponse struct {
	Success bool                  `json:"success"`
	Classes []models.ClassRequest `json:"classes"`
}

type acceptResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Request models.ClassRequest `json:"request"`
}

// ClassRequests handles GET /api/teacher/class-requests[?status=].
func (h *Handler) ClassRequests(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := authz.TeacherID(r)
	if !ok {
		uierrors.RenderUnauthorized(w, msgNotAuthenticated)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "teacher class requests")
	defer cancel()

	out, err := h.Booking.TeacherRequests(ctx, teacherID, normalize.Status(query.Get(r, "status")))
	if err != nil {
		h.ErrLog.Write(w, r, "list teacher requests failed", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, requestsResponse{Success: true, Requests: out})
}

// ManagedClasses handles GET /api/teacher/managed-classes.
func (h *Handler) ManagedClasses(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := authz.TeacherID(r)
	if !ok {
		uierrors.RenderUnauthorized(w, msgNotAuthenticated)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "teacher managed classes")
	defer cancel()

	out, err := h.Booking.ManagedClasses(ctx, teacherID)
	if err != nil {
		h.ErrLog.Write(w, r, "list managed classes failed", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, classesResponse{Success: true, Classes: out})
}

// Accept handles PUT /api/teacher/class-requests/{id}/accept.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := authz.TeacherID(r)
	if !ok {
		uierrors.RenderUnauthorized(w, msgNotAuthenticated)
		return
	}
	reqID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Fail(w, http.StatusBadRequest, "Invalid id.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "teacher accept request")
	defer cancel()

	req, err := h.Booking.Accept(ctx, teacherID, reqID)
	if err != nil {
		h.ErrLog.Write(w, r, "accept class request failed", err)
		return
	}

	h.AuditLog.BookingAccepted(ctx, r, teacherID.Hex(), reqID.Hex())
	uierrors.JSON(w, http.StatusOK, acceptResponse{
		Success: true,
		Message: "Class request accepted",
		Request: req,
	})
}
