// internal/app/features/admin/handler.go
package admin

import (
	"net/http"

	"github.com/dalemusser/primementor/internal/app/booking"
	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	studentstore "github.com/dalemusser/primementor/internal/app/store/students"
	syncjobstore "github.com/dalemusser/primementor/internal/app/store/syncjobs"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/auditlog"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin console API.
type Handler struct {
	Booking  *booking.Service
	Students *studentstore.Store
	Teachers *teacherstore.Store
	SyncJobs *syncjobstore.Store

	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, svc *booking.Service, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Booking:  svc,
		Students: studentstore.New(db),
		Teachers: teacherstore.New(db),
		SyncJobs: syncjobstore.New(db),
		AuditLog: auditLog,
		ErrLog:   errLog,
		Log:      logger,
	}
}

// pathID parses the {id} URL parameter, writing a 400 when malformed.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.Fail(w, http.StatusBadRequest, "Invalid id.")
		return primitive.NilObjectID, false
	}
	return id, true
}

func actorID(r *http.Request) string {
	if p, ok := auth.CurrentUser(r); ok {
		return p.ID
	}
	return ""
}
