package booking

import (
	"context"

	studentstore "github.com/dalemusser/primementor/internal/app/store/students"
	"github.com/dalemusser/primementor/internal/app/system/apperr"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentCourses returns the student's course entries in enrollment order,
// creating the student record on first sight.
func (s *Service) StudentCourses(ctx context.Context, studentID string, p studentstore.Profile) ([]models.CourseEntry, error) {
	if studentID == "" {
		return nil, apperr.Unauthorized("Not authorized")
	}
	st, err := s.students.EnsureByClerkID(ctx, studentID, p)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if st.Courses == nil {
		return []models.CourseEntry{}, nil
	}
	return st.Courses, nil
}

// ListPending returns pending requests, oldest enrollment first.
func (s *Service) ListPending(ctx context.Context) ([]models.ClassRequest, error) {
	out, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// ListAccepted returns accepted requests with their teacher's name.
func (s *Service) ListAccepted(ctx context.Context) ([]models.ClassRequestWithTeacher, error) {
	out, err := s.requests.ListAcceptedWithTeacher(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// TeacherRequests lists the teacher's requests, optionally by status.
func (s *Service) TeacherRequests(ctx context.Context, teacherID primitive.ObjectID, status string) ([]models.ClassRequest, error) {
	switch status {
	case "", models.RequestPending, models.RequestAccepted, models.RequestRejected:
	default:
		return nil, apperr.Validation(msgUnknownReqStatus)
	}
	out, err := s.requests.ListForTeacher(ctx, teacherID, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// ManagedClasses lists the teacher's accepted requests by first session date.
func (s *Service) ManagedClasses(ctx context.Context, teacherID primitive.ObjectID) ([]models.ClassRequest, error) {
	return s.TeacherRequests(ctx, teacherID, models.RequestAccepted)
}
