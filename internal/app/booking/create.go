package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	studentstore "github.com/dalemusser/primementor/internal/app/store/students"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/apperr"
	"github.com/dalemusser/primementor/internal/app/system/meeting"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/schedule"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/app/system/txn"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const msgAlreadyEnrolled = "You have already enrolled in this course."

// CreateInput is a student's booking request.
//
// Trial bookings use PreferredDate and PreferredTime. Starter packs use
// PreferredWeekStart, PreferredTimeMonFri, the optional
// PreferredTimeSaturday and NumberOfSessions.
type CreateInput struct {
	StudentID string
	Profile   studentstore.Profile

	CourseID     string
	CourseTitle  string
	Subject      string
	PurchaseType string

	PreferredDate string
	PreferredTime string

	PreferredWeekStart    string
	PreferredTimeMonFri   string
	PreferredTimeSaturday *string
	NumberOfSessions      int

	Postcode string
}

// plan is the normalized first session and entry labels for an input.
type plan struct {
	date, clock string
	monFri      *string
	saturday    *string
	sessions    int
	description string
	duration    string
}

func planFor(in CreateInput) (plan, error) {
	switch in.PurchaseType {
	case models.PurchaseTrial:
		if in.PreferredDate == "" || in.PreferredTime == "" {
			return plan{}, apperr.Validation("Preferred date and time are required for a trial.")
		}
		return plan{
			date:        in.PreferredDate,
			clock:       in.PreferredTime,
			sessions:    1,
			description: "Trial session for " + in.CourseTitle,
			duration:    "1 hour trial",
		}, nil

	case models.PurchaseStarterPack:
		if in.PreferredWeekStart == "" || in.PreferredTimeMonFri == "" {
			return plan{}, apperr.Validation("Preferred week start and weekday time are required for a starter pack.")
		}
		if in.NumberOfSessions < 1 {
			return plan{}, apperr.Validation("Number of sessions must be at least 1.")
		}
		monFri := in.PreferredTimeMonFri
		return plan{
			date:        in.PreferredWeekStart,
			clock:       in.PreferredTimeMonFri,
			monFri:      &monFri,
			saturday:    in.PreferredTimeSaturday,
			sessions:    in.NumberOfSessions,
			description: "Starter pack for " + in.CourseTitle,
			duration:    fmt.Sprintf("%d sessions", in.NumberOfSessions),
		}, nil
	}
	return plan{}, apperr.Validation("Purchase type must be TRIAL or STARTER_PACK.")
}

// Create books a course for a student: it writes a pending class request
// and the matching course entry, and returns both. A second booking of the
// same course title is a Conflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.ClassRequest, models.CourseEntry, error) {
	in.CourseTitle = normalize.Title(in.CourseTitle)
	in.PurchaseType = normalize.PurchaseType(in.PurchaseType)
	if in.StudentID == "" {
		return models.ClassRequest{}, models.CourseEntry{}, apperr.Unauthorized("Not authorized")
	}
	if in.CourseTitle == "" {
		return models.ClassRequest{}, models.CourseEntry{}, apperr.Validation("Course title is required.")
	}
	p, err := planFor(in)
	if err != nil {
		return models.ClassRequest{}, models.CourseEntry{}, err
	}

	student, err := s.students.EnsureByClerkID(ctx, in.StudentID, in.Profile)
	if err != nil {
		return models.ClassRequest{}, models.CourseEntry{}, apperr.Internal(err)
	}
	has, err := s.students.HasCourse(ctx, in.StudentID, in.CourseTitle)
	if err != nil {
		return models.ClassRequest{}, models.CourseEntry{}, apperr.Internal(err)
	}
	if has {
		return models.ClassRequest{}, models.CourseEntry{}, apperr.Conflict(msgAlreadyEnrolled)
	}

	teacherID, teacherName := s.autoAssign(ctx)
	link := s.provision(ctx, in.CourseTitle, p)

	now := time.Now().UTC()
	reqID := primitive.NewObjectID()
	req := models.ClassRequest{
		ID:                    reqID,
		CourseID:              in.CourseID,
		CourseTitle:           in.CourseTitle,
		StudentID:             in.StudentID,
		StudentName:           student.StudentName,
		TeacherID:             teacherID,
		PurchaseType:          in.PurchaseType,
		PreferredDate:         p.date,
		ScheduleTime:          p.clock,
		PreferredTimeMonFri:   p.monFri,
		PreferredTimeSaturday: p.saturday,
		NumberOfSessions:      p.sessions,
		Postcode:              in.Postcode,
		Subject:               normalize.Title(in.Subject),
		Status:                models.RequestPending,
		EnrollmentDate:        now,
	}
	entry := models.CourseEntry{
		RequestID:             &reqID,
		Name:                  in.CourseTitle,
		Description:           p.description,
		Teacher:               teacherName,
		Duration:              p.duration,
		PreferredDate:         p.date,
		PreferredTime:         p.clock,
		PreferredTimeMonFri:   p.monFri,
		PreferredTimeSaturday: p.saturday,
		SessionsRemaining:     p.sessions,
		Status:                models.EntryPending,
		EnrollmentDate:        now,
		ZoomMeetingURL:        link,
	}

	var created models.ClassRequest
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		c, err := s.requests.Create(ctx, req)
		if err != nil {
			return err
		}
		if err := s.students.AddCourse(ctx, in.StudentID, entry); err != nil {
			// Without a transaction the request is already stored.
			if derr := s.requests.Delete(ctx, reqID); derr != nil {
				s.log.Warn("booking: compensating delete failed",
					zap.String("request_id", reqID.Hex()), zap.Error(derr))
			}
			return err
		}
		created = c
		return nil
	})
	if errors.Is(err, studentstore.ErrCourseExists) {
		return models.ClassRequest{}, models.CourseEntry{}, apperr.Conflict(msgAlreadyEnrolled)
	}
	if err != nil {
		return models.ClassRequest{}, models.CourseEntry{}, apperr.Internal(err)
	}

	s.metrics.BookingCreated(in.PurchaseType)
	// The request and entry are already stored together; a missing outbox
	// job only loses the background retry.
	if _, err := s.jobs.Enqueue(ctx, reqID, models.SyncReasonCreate); err != nil {
		s.log.Warn("booking: enqueue sync job failed",
			zap.String("request_id", reqID.Hex()), zap.Error(err))
	}
	s.reconcileInline(ctx, reqID, models.SyncReasonCreate)

	s.log.Info("booking created",
		zap.String("request_id", reqID.Hex()),
		zap.String("student_id", in.StudentID),
		zap.String("course", in.CourseTitle),
		zap.String("purchase_type", in.PurchaseType))
	return created, entry, nil
}

// autoAssign returns the teacher to store on a new request and the label for
// its entry. With auto-assign off, or no teacher on the roster, the request
// is left unassigned.
func (s *Service) autoAssign(ctx context.Context) (*primitive.ObjectID, string) {
	if !s.cfg.AutoAssign {
		return nil, models.PendingAssignment
	}
	t, err := s.teachers.PickRandom(ctx)
	if err != nil {
		if !errors.Is(err, teacherstore.ErrNotFound) {
			s.log.Warn("booking: auto-assign failed", zap.Error(err))
		}
		return nil, models.PendingAssignment
	}
	id := t.ID
	return &id, t.Name
}

// provision asks the meeting provider for the first session's link and
// falls back to the configured placeholder on any failure.
func (s *Service) provision(ctx context.Context, topic string, p plan) string {
	start, err := schedule.Start(p.date, p.clock, s.cfg.Location)
	if err != nil {
		s.log.Warn("booking: unparseable first session, using fallback link",
			zap.String("date", p.date), zap.String("time", p.clock), zap.Error(err))
		s.metrics.ProvisionerFallback()
		return s.cfg.FallbackURL
	}

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Upstream(), s.log, "create meeting")
	defer cancel()

	url, err := s.meetings.CreateMeeting(ctx, meeting.Request{
		Topic:    topic,
		Start:    start,
		Duration: s.cfg.MeetingDuration,
	})
	if err != nil {
		if !errors.Is(err, meeting.ErrNotConfigured) {
			s.log.Warn("booking: meeting provisioning failed, using fallback link",
				zap.String("topic", topic), zap.Error(err))
		}
		s.metrics.ProvisionerFallback()
		return s.cfg.FallbackURL
	}
	return url
}
