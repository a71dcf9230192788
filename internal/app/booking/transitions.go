package booking

import (
	"context"
	"errors"

	classrequeststore "github.com/dalemusser/primementor/internal/app/store/classrequests"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/apperr"
	"github.com/dalemusser/primementor/internal/app/system/inputval"
	"github.com/dalemusser/primementor/internal/app/system/txn"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgRequestNotFound  = "Class request not found."
	msgNotPending       = "Class request not found or already processed."
	msgNotAccepted      = "Class request not found or not accepted yet."
	msgTeacherNotFound  = "Teacher not found."
	msgNotYourRequest   = "Not authorized to accept this request."
	msgLinkRequired     = "Meeting link is required."
	msgLinkInvalid      = "Meeting link must be an http or https URL."
	msgUnknownReqStatus = "Status must be pending, accepted or rejected."
)

// Assigned is the result of an admin assignment.
type Assigned struct {
	Request     models.ClassRequest
	TeacherName string
}

// Assign gives a pending request to a teacher and accepts it. The course
// entry is reconciled afterwards; a reconcile failure is logged and left to
// the sync worker.
func (s *Service) Assign(ctx context.Context, requestID, teacherID primitive.ObjectID) (Assigned, error) {
	t, err := s.teachers.GetByID(ctx, teacherID)
	if errors.Is(err, teacherstore.ErrNotFound) {
		return Assigned{}, apperr.NotFound(msgTeacherNotFound)
	}
	if err != nil {
		return Assigned{}, apperr.Internal(err)
	}

	var updated models.ClassRequest
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		cr, err := s.requests.Assign(ctx, requestID, teacherID)
		if err != nil {
			return err
		}
		if _, err := s.jobs.Enqueue(ctx, requestID, models.SyncReasonAssign); err != nil {
			return err
		}
		updated = cr
		return nil
	})
	if errors.Is(err, classrequeststore.ErrNotFound) {
		return Assigned{}, apperr.Conflict(msgNotPending)
	}
	if err != nil {
		return Assigned{}, apperr.Internal(err)
	}

	s.metrics.Transition(models.SyncReasonAssign)
	s.reconcileInline(ctx, requestID, models.SyncReasonAssign)

	s.log.Info("class request assigned",
		zap.String("request_id", requestID.Hex()),
		zap.String("teacher_id", teacherID.Hex()))
	return Assigned{Request: updated, TeacherName: t.Name}, nil
}

// AttachLink stores the meeting link on an accepted request and mirrors it
// onto the course entry.
func (s *Service) AttachLink(ctx context.Context, requestID primitive.ObjectID, link string) (models.ClassRequest, error) {
	if link == "" {
		return models.ClassRequest{}, apperr.Validation(msgLinkRequired)
	}
	if !inputval.IsValidHTTPURL(link) {
		return models.ClassRequest{}, apperr.Validation(msgLinkInvalid)
	}

	var updated models.ClassRequest
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		cr, err := s.requests.SetLink(ctx, requestID, link)
		if err != nil {
			return err
		}
		if _, err := s.jobs.Enqueue(ctx, requestID, models.SyncReasonLink); err != nil {
			return err
		}
		updated = cr
		return nil
	})
	if errors.Is(err, classrequeststore.ErrNotFound) {
		return models.ClassRequest{}, apperr.Conflict(msgNotAccepted)
	}
	if err != nil {
		return models.ClassRequest{}, apperr.Internal(err)
	}

	s.metrics.Transition(models.SyncReasonLink)
	s.reconcileInline(ctx, requestID, models.SyncReasonLink)
	return updated, nil
}

// Accept lets a teacher accept a pending request assigned to them.
func (s *Service) Accept(ctx context.Context, teacherID, requestID primitive.ObjectID) (models.ClassRequest, error) {
	cr, err := s.requests.GetByID(ctx, requestID)
	if errors.Is(err, classrequeststore.ErrNotFound) {
		return models.ClassRequest{}, apperr.NotFound(msgRequestNotFound)
	}
	if err != nil {
		return models.ClassRequest{}, apperr.Internal(err)
	}
	if cr.TeacherID == nil || *cr.TeacherID != teacherID {
		return models.ClassRequest{}, apperr.Forbidden(msgNotYourRequest)
	}

	var updated models.ClassRequest
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		cr, err := s.requests.AcceptByTeacher(ctx, requestID, teacherID)
		if err != nil {
			return err
		}
		if _, err := s.jobs.Enqueue(ctx, requestID, models.SyncReasonAccept); err != nil {
			return err
		}
		updated = cr
		return nil
	})
	if errors.Is(err, classrequeststore.ErrNotFound) {
		return models.ClassRequest{}, apperr.Conflict(msgNotPending)
	}
	if err != nil {
		return models.ClassRequest{}, apperr.Internal(err)
	}

	s.metrics.Transition(models.SyncReasonAccept)
	s.reconcileInline(ctx, requestID, models.SyncReasonAccept)
	return updated, nil
}
