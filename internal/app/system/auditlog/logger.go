// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/primementor/internal/app/store/audit"
	"github.com/dalemusser/primementor/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Destination settings per category.
const (
	All = "all" // MongoDB + zap
	DB  = "db"  // MongoDB only
	Log = "log" // zap only
	Off = "off"
)

// Config selects a destination per event category.
type Config struct {
	Auth    string
	Admin   string
	Booking string
}

// Logger writes audit events to the audit store and/or zap.
// A nil *Logger is a no-op so tests can omit it.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

func (l *Logger) setting(category string) string {
	var s string
	switch category {
	case audit.CategoryAuth:
		s = l.config.Auth
	case audit.CategoryAdmin:
		s = l.config.Admin
	case audit.CategoryBooking:
		s = l.config.Booking
	}
	if s == "" {
		return All
	}
	return s
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID), zap.String("actor_role", event.ActorRole))
	}
	if event.TargetID != "" {
		fields = append(fields, zap.String("target_id", event.TargetID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records event according to its category's destination.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}
	setting := l.setting(event.Category)
	if setting == Off {
		return
	}
	if setting == All || setting == Log {
		l.logToZap(event)
	}
	if (setting == All || setting == DB) && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

func fromRequest(r *http.Request, e audit.Event) audit.Event {
	if r != nil {
		e.IP = ratelimit.ClientIP(r)
		e.UserAgent = r.UserAgent()
	}
	return e
}

// --- Authentication ---

// LoginSuccess records a successful admin or teacher login.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, actorID, role string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		ActorID:   actorID,
		ActorRole: role,
		Success:   true,
	}))
}

// LoginFailed records a rejected login. eventType is one of the
// audit.EventLoginFailed* constants.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, eventType, email, role, reason string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:      audit.CategoryAuth,
		EventType:     eventType,
		ActorRole:     role,
		FailureReason: reason,
		Details:       map[string]string{"attempted_email": email},
	}))
}

// TeacherRegistered records a new teacher account.
func (l *Logger) TeacherRegistered(ctx context.Context, r *http.Request, teacherID, email string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventTeacherRegistered,
		ActorID:   teacherID,
		ActorRole: "teacher",
		TargetID:  teacherID,
		Success:   true,
		Details:   map[string]string{"email": email},
	}))
}

// --- Admin actions ---

// AdminAction records an admin operation on targetID.
func (l *Logger) AdminAction(ctx context.Context, r *http.Request, eventType, actorID, targetID string, details map[string]string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		ActorID:   actorID,
		ActorRole: "admin",
		TargetID:  targetID,
		Success:   true,
		Details:   details,
	}))
}

// --- Bookings ---

// BookingCreated records a student booking.
func (l *Logger) BookingCreated(ctx context.Context, r *http.Request, studentID, requestID, courseTitle, purchaseType string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryBooking,
		EventType: audit.EventBookingCreated,
		ActorID:   studentID,
		ActorRole: "student",
		TargetID:  requestID,
		Success:   true,
		Details:   map[string]string{"course_title": courseTitle, "purchase_type": purchaseType},
	}))
}

// BookingAccepted records a teacher accepting an assigned request.
func (l *Logger) BookingAccepted(ctx context.Context, r *http.Request, teacherID, requestID string) {
	l.Log(ctx, fromRequest(r, audit.Event{
		Category:  audit.CategoryBooking,
		EventType: audit.EventBookingAccepted,
		ActorID:   teacherID,
		ActorRole: "teacher",
		TargetID:  requestID,
		Success:   true,
	}))
}
