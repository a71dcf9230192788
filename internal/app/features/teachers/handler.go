// internal/app/features/teachers/handler.go
package teachers

import (
	"time"

	"github.com/dalemusser/primementor/internal/app/booking"
	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/auditlog"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves teacher registration and the teacher self-service API.
type Handler struct {
	Booking  *booking.Service
	Teachers *teacherstore.Store
	Uploads  storage.Store
	Tokens   *auth.Tokens
	TokenTTL time.Duration

	AuditLog *auditlog.Logger
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs a teachers Handler. A nil store rejects file uploads.
func NewHandler(db *mongo.Database, svc *booking.Service, store storage.Store, tokens *auth.Tokens, ttl time.Duration, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Handler{
		Booking:  svc,
		Teachers: teacherstore.New(db),
		Uploads:  store,
		Tokens:   tokens,
		TokenTTL: ttl,
		AuditLog: auditLog,
		ErrLog:   errLog,
		Log:      logger,
	}
}
