// internal/app/features/assessments/handler.go
package assessments

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	assessmentstore "github.com/dalemusser/primementor/internal/app/store/assessments"
	"github.com/dalemusser/primementor/internal/app/store/audit"
	"github.com/dalemusser/primementor/internal/app/system/auditlog"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/primementor/internal/app/system/formutil"
	"github.com/dalemusser/primementor/internal/app/system/htmlsanitize"
	"github.com/dalemusser/primementor/internal/app/system/inputval"
	"github.com/dalemusser/primementor/internal/app/system/limits"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgMissingCore    = "Missing core required fields for database submission."
	msgMissingStudent = "Missing student contact details."
	msgMissingParent  = "Missing parent contact details."
	msgBadStatus      = "Status must be New, Contacted, Scheduled, Completed or Canceled."
)

// Handler serves the free-assessment intake and its admin triage.
type Handler struct {
	Assessments *assessmentstore.Store
	AuditLog    *auditlog.Logger
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Assessments: assessmentstore.New(db),
		AuditLog:    auditLog,
		ErrLog:      errLog,
		Log:         logger,
	}
}

type submitInput struct {
	ClassRange    string `json:"classRange" validate:"notblank"`
	Role          string `json:"role" validate:"notblank"`
	Year          string `json:"year" validate:"notblank"`
	Subject       string `json:"subject" validate:"notblank"`
	Needs         string `json:"needs" validate:"notblank"`
	State         string `json:"state" validate:"notblank"`
	ContactNumber string `json:"contactNumber" validate:"notblank"`

	StudentFirstName string `json:"studentFirstName"`
	StudentLastName  string `json:"studentLastName"`
	StudentEmail     string `json:"studentEmail"`
	ParentFirstName  string `json:"parentFirstName"`
	ParentLastName   string `json:"parentLastName"`
	ParentEmail      string `json:"parentEmail"`
}

type statusInput struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"adminNotes"`
}

type submitResponse struct {
	Message string            `json:"message"`
	Data    models.Assessment `json:"data"`
}

type assessmentResponse struct {
	Success    bool              `json:"success"`
	Assessment models.Assessment `json:"assessment"`
}

func orNA(s string) string {
	if s == "" {
		return models.NotProvided
	}
	return s
}

// Submit handles POST /api/assessments/submit. It is public.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in submitInput
	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode assessment failed", err, "Invalid request body.")
		return
	}
	htmlsanitize.Fields(
		&in.ClassRange, &in.Role, &in.Year, &in.Subject, &in.Needs, &in.State, &in.ContactNumber,
		&in.StudentFirstName, &in.StudentLastName, &in.StudentEmail,
		&in.ParentFirstName, &in.ParentLastName, &in.ParentEmail,
	)
	in.Role = normalize.Status(in.Role)

	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Fail(w, http.StatusBadRequest, msgMissingCore)
		return
	}
	switch in.Role {
	case "student":
		if in.StudentFirstName == "" || in.StudentEmail == "" {
			uierrors.Fail(w, http.StatusBadRequest, msgMissingStudent)
			return
		}
	case "parent":
		if in.ParentFirstName == "" || in.ParentEmail == "" {
			uierrors.Fail(w, http.StatusBadRequest, msgMissingParent)
			return
		}
	default:
		uierrors.Fail(w, http.StatusBadRequest, "Role must be student or parent.")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "assessment submit")
	defer cancel()

	a, err := h.Assessments.Create(ctx, models.Assessment{
		Role:             in.Role,
		ClassRange:       in.ClassRange,
		Year:             in.Year,
		Subject:          in.Subject,
		Needs:            in.Needs,
		State:            in.State,
		ContactNumber:    in.ContactNumber,
		StudentFirstName: orNA(in.StudentFirstName),
		StudentLastName:  orNA(in.StudentLastName),
		StudentEmail:     orNA(normalize.Email(in.StudentEmail)),
		ParentFirstName:  orNA(in.ParentFirstName),
		ParentLastName:   orNA(in.ParentLastName),
		ParentEmail:      orNA(normalize.Email(in.ParentEmail)),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save assessment failed", err, "Server error saving request to database.")
		return
	}

	h.Log.Info("assessment submitted", zap.String("assessment_id", a.ID.Hex()), zap.String("role", a.Role))
	uierrors.JSON(w, http.StatusCreated, submitResponse{
		Message: "Assessment flow data saved successfully for admin panel.",
		Data:    a,
	})
}

// List handles GET /api/assessments[?status=]. Admin only.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := query.Get(r, "status")
	if status != "" && !models.IsValidAssessmentStatus(status) {
		uierrors.Fail(w, http.StatusBadRequest, msgBadStatus)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "assessment list")
	defer cancel()

	out, err := h.Assessments.List(ctx, status)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list assessments failed", err, "A database error occurred.")
		return
	}
	uierrors.JSON(w, http.StatusOK, out)
}

// SetStatus handles PUT /api/assessments/{id}/status. Admin only.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Fail(w, http.StatusBadRequest, "Invalid id.")
		return
	}
	var in statusInput
	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode assessment status failed", err, "Invalid request body.")
		return
	}
	if !models.IsValidAssessmentStatus(in.Status) {
		uierrors.Fail(w, http.StatusBadRequest, msgBadStatus)
		return
	}
	if in.AdminNotes != nil {
		notes := htmlsanitize.PlainText(*in.AdminNotes)
		in.AdminNotes = &notes
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "assessment status")
	defer cancel()

	a, err := h.Assessments.SetStatus(ctx, id, in.Status, in.AdminNotes)
	if errors.Is(err, assessmentstore.ErrNotFound) {
		uierrors.Fail(w, http.StatusNotFound, "Assessment not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update assessment status failed", err, "A database error occurred.")
		return
	}

	actor := ""
	if p, ok := auth.CurrentUser(r); ok {
		actor = p.ID
	}
	h.AuditLog.AdminAction(ctx, r, audit.EventAssessmentStatusChanged, actor, id.Hex(),
		map[string]string{"status": in.Status})
	uierrors.JSON(w, http.StatusOK, assessmentResponse{Success: true, Assessment: a})
}
