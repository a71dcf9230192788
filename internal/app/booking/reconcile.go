package booking

import (
	"context"
	"errors"
	"fmt"

	studentstore "github.com/dalemusser/primementor/internal/app/store/students"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reconcile projects the class request's status, teacher and meeting link
// onto its course entry and completes the request's pending sync jobs.
// It is idempotent.
//
// A teacher that no longer exists leaves the entry's teacher label as it
// is, and an empty link never clears one already on the entry.
func (s *Service) Reconcile(ctx context.Context, requestID primitive.ObjectID) error {
	cr, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("load request: %w", err)
	}

	status, ok := models.EntryStatusFor(cr.Status)
	if ok {
		upd := studentstore.EntryUpdate{Status: status}

		if cr.TeacherID != nil {
			t, err := s.teachers.GetByID(ctx, *cr.TeacherID)
			switch {
			case err == nil:
				upd.Teacher = &t.Name
			case errors.Is(err, teacherstore.ErrNotFound):
			default:
				return fmt.Errorf("load teacher: %w", err)
			}
		}
		if cr.ZoomMeetingLink != "" {
			link := cr.ZoomMeetingLink
			upd.Link = &link
		}

		if err := s.students.SyncEntry(ctx, cr.StudentID, cr.ID, cr.CourseTitle, upd); err != nil {
			return fmt.Errorf("sync entry: %w", err)
		}
	}

	if _, err := s.jobs.CompleteForRequest(ctx, requestID); err != nil {
		return fmt.Errorf("complete sync jobs: %w", err)
	}
	return nil
}

// reconcileInline runs Reconcile once after a state change. Failures are
// not returned; the pending sync job stays queued for the worker.
func (s *Service) reconcileInline(ctx context.Context, requestID primitive.ObjectID, reason string) {
	if err := s.Reconcile(ctx, requestID); err != nil {
		s.metrics.SyncFailed("inline")
		s.log.Warn("booking: course entry sync failed, queued for retry",
			zap.String("request_id", requestID.Hex()),
			zap.String("reason", reason),
			zap.Error(err))
	}
}
