// Package booking implements the booking state machine. A class request is
// the source of truth for a booking; the matching course entry embedded in
// the student record is a projection kept in step by Reconcile.
package booking

import (
	"time"

	classrequeststore "github.com/dalemusser/primementor/internal/app/store/classrequests"
	studentstore "github.com/dalemusser/primementor/internal/app/store/students"
	syncjobstore "github.com/dalemusser/primementor/internal/app/store/syncjobs"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/meeting"
	"github.com/dalemusser/primementor/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Config holds the booking options read at startup.
type Config struct {
	// AutoAssign picks a teacher at booking time. The request stays pending.
	AutoAssign bool
	// FallbackURL is stored on the course entry when no meeting could be
	// provisioned. It may be empty.
	FallbackURL string
	// MeetingDuration is the length requested for the first session.
	MeetingDuration time.Duration
	// Location interprets the booked date and time. Nil means UTC.
	Location *time.Location
}

// Service coordinates the students, class_requests and teachers collections.
type Service struct {
	db       *mongo.Database
	students *studentstore.Store
	requests *classrequeststore.Store
	teachers *teacherstore.Store
	jobs     *syncjobstore.Store

	meetings meeting.Provisioner
	metrics  *metrics.Metrics
	log      *zap.Logger
	cfg      Config
}

// New wires a Service. A nil provisioner disables meeting creation and a
// nil metrics records nothing.
func New(db *mongo.Database, meetings meeting.Provisioner, m *metrics.Metrics, logger *zap.Logger, cfg Config) *Service {
	if meetings == nil {
		meetings = meeting.Disabled{}
	}
	if cfg.MeetingDuration <= 0 {
		cfg.MeetingDuration = time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		db:       db,
		students: studentstore.New(db),
		requests: classrequeststore.New(db),
		teachers: teacherstore.New(db),
		jobs:     syncjobstore.New(db),
		meetings: meetings,
		metrics:  m,
		log:      logger,
		cfg:      cfg,
	}
}
