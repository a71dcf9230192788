// internal/domain/models/student.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course entry statuses. An entry mirrors one class request; see
// EntryStatusFor for the projection from request status.
const (
	EntryPending   = "pending"
	EntryActive    = "active"
	EntryCompleted = "completed"
)

// PendingAssignment is the teacher label shown on an entry until a teacher
// has been assigned to the underlying class request.
const PendingAssignment = "pending assignment"

// DefaultStudentName is used when the identity provider supplies no first name.
const DefaultStudentName = "New Student"

// Student is the enrollment record for one identity-provider subject.
//
// NOTE:
//   - ClerkID is the external subject id and is unique.
//   - Courses is the student-facing projection of the student's class
//     requests, in enrollment order. Entries are never removed.
type Student struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID       string             `bson:"clerk_id" json:"clerkId"`
	StudentName   string             `bson:"student_name" json:"studentName"`
	StudentNameCI string             `bson:"student_name_ci" json:"-"`
	Email         string             `bson:"email,omitempty" json:"email"`
	GuardianEmail string             `bson:"guardian_email,omitempty" json:"guardianEmail,omitempty"`
	GuardianPhone string             `bson:"guardian_phone,omitempty" json:"guardianPhone,omitempty"`
	Courses       []CourseEntry      `bson:"courses" json:"courses"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// CourseEntry is a booking as the student sees it.
type CourseEntry struct {
	RequestID             *primitive.ObjectID `bson:"request_id,omitempty" json:"requestId,omitempty"`
	Name                  string              `bson:"name" json:"name"`
	Description           string              `bson:"description" json:"description"`
	Teacher               string              `bson:"teacher" json:"teacher"`
	Duration              string              `bson:"duration" json:"duration"`
	PreferredDate         string              `bson:"preferred_date" json:"preferredDate"`
	PreferredTime         string              `bson:"preferred_time" json:"preferredTime"`
	PreferredTimeMonFri   *string             `bson:"preferred_time_mon_fri" json:"preferredTimeMonFri"`
	PreferredTimeSaturday *string             `bson:"preferred_time_saturday" json:"preferredTimeSaturday"`
	SessionsRemaining     int                 `bson:"sessions_remaining" json:"sessionsRemaining"`
	Status                string              `bson:"status" json:"status"`
	EnrollmentDate        time.Time           `bson:"enrollment_date" json:"enrollmentDate"`
	ZoomMeetingURL        string              `bson:"zoom_meeting_url" json:"zoomMeetingUrl"`
}

// FindCourse returns the entry with the given course name, if any.
func (s Student) FindCourse(name string) (CourseEntry, bool) {
	for _, c := range s.Courses {
		if c.Name == name {
			return c, true
		}
	}
	return CourseEntry{}, false
}
