// internal/app/features/user/handler.go
package user

import (
	"net/http"

	"github.com/dalemusser/primementor/internal/app/booking"
	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	studentstore "github.com/dalemusser/primementor/internal/app/store/students"
	"github.com/dalemusser/primementor/internal/app/system/auditlog"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/primementor/internal/app/system/authz"
	"github.com/dalemusser/primementor/internal/app/system/formutil"
	"github.com/dalemusser/primementor/internal/app/system/htmlsanitize"
	"github.com/dalemusser/primementor/internal/app/system/limits"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the student booking API.
type Handler struct {
	Booking  *booking.Service
	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(svc *booking.Service, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Booking: svc, AuditLog: auditLog, ErrLog: errLog, Log: logger}
}

type courseDetails struct {
	CourseID     string `json:"courseId"`
	CourseTitle  string `json:"courseTitle"`
	Subject      string `json:"subject"`
	PurchaseType string `json:"purchaseType"`
}

type scheduleDetails struct {
	PreferredDate         string  `json:"preferredDate"`
	PreferredTime         string  `json:"preferredTime"`
	PreferredWeekStart    string  `json:"preferredWeekStart"`
	PreferredTimeMonFri   string  `json:"preferredTimeMonFri"`
	PreferredTimeSaturday *string `json:"preferredTimeSaturday"`
	NumberOfSessions      int     `json:"numberOfSessions"`
}

type bookInput struct {
	CourseDetails   courseDetails   `json:"courseDetails"`
	ScheduleDetails scheduleDetails `json:"scheduleDetails"`
	Postcode        string          `json:"postcode"`
}

type bookResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Course  models.CourseEntry `json:"course"`
}

type coursesResponse struct {
	Courses []models.CourseEntry `json:"courses"`
}

func profileOf(r *http.Request) studentstore.Profile {
	p, ok := auth.CurrentUser(r)
	if !ok {
		return studentstore.Profile{}
	}
	return studentstore.Profile{Email: p.Email, FirstName: p.Name}
}

// Book handles POST /api/user/book.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	studentID, ok := authz.StudentSubject(r)
	if !ok {
		uierrors.RenderUnauthorized(w, "")
		return
	}

	var in bookInput
	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode booking failed", err, "Invalid request body.")
		return
	}

	cd, sd := in.CourseDetails, in.ScheduleDetails
	htmlsanitize.Fields(&cd.CourseTitle, &cd.Subject, &in.Postcode)
	purchase := normalize.PurchaseType(cd.PurchaseType)
	if purchase == "" {
		purchase = models.PurchaseTrial
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "book class")
	defer cancel()

	_, entry, err := h.Booking.Create(ctx, booking.CreateInput{
		StudentID:             studentID,
		Profile:               profileOf(r),
		CourseID:              cd.CourseID,
		CourseTitle:           cd.CourseTitle,
		Subject:               cd.Subject,
		PurchaseType:          purchase,
		PreferredDate:         sd.PreferredDate,
		PreferredTime:         sd.PreferredTime,
		PreferredWeekStart:    sd.PreferredWeekStart,
		PreferredTimeMonFri:   sd.PreferredTimeMonFri,
		PreferredTimeSaturday: sd.PreferredTimeSaturday,
		NumberOfSessions:      sd.NumberOfSessions,
		Postcode:              in.Postcode,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "create booking failed", err)
		return
	}

	reqID := ""
	if entry.RequestID != nil {
		reqID = entry.RequestID.Hex()
	}
	h.AuditLog.BookingCreated(ctx, r, studentID, reqID, entry.Name, purchase)

	uierrors.JSON(w, http.StatusCreated, bookResponse{
		Success: true,
		Message: "Booking and request created successfully!",
		Course:  entry,
	})
}

// Courses handles GET /api/user/courses.
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	studentID, ok := authz.StudentSubject(r)
	if !ok {
		uierrors.RenderUnauthorized(w, "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "student courses")
	defer cancel()

	courses, err := h.Booking.StudentCourses(ctx, studentID, profileOf(r))
	if err != nil {
		h.ErrLog.Write(w, r, "load student courses failed", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, coursesResponse{Courses: courses})
}
