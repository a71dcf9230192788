// internal/domain/models/classrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Class request statuses.
//
// RequestRejected is part of the stored enum but no operation moves a
// request into it yet.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Purchase types.
const (
	PurchaseTrial       = "TRIAL"
	PurchaseStarterPack = "STARTER_PACK"
)

// DefaultSubject is stored when a booking names no subject.
const DefaultSubject = "Unassigned"

// ClassRequest is the admin-facing record of one booking and the source of
// truth for its status, teacher and meeting link. The student's CourseEntry
// is reconciled from it.
type ClassRequest struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CourseID    string              `bson:"course_id" json:"courseId"`
	CourseTitle string              `bson:"course_title" json:"courseTitle"`
	StudentID   string              `bson:"student_id" json:"studentId"`
	StudentName string              `bson:"student_name" json:"studentName"`
	TeacherID   *primitive.ObjectID `bson:"teacher_id" json:"teacherId"`

	PurchaseType          string  `bson:"purchase_type" json:"purchaseType"`
	PreferredDate         string  `bson:"preferred_date" json:"preferredDate"`
	ScheduleTime          string  `bson:"schedule_time" json:"scheduleTime"`
	PreferredTimeMonFri   *string `bson:"preferred_time_mon_fri" json:"preferredTimeMonFri"`
	PreferredTimeSaturday *string `bson:"preferred_time_saturday" json:"preferredTimeSaturday"`
	NumberOfSessions      int     `bson:"number_of_sessions" json:"numberOfSessions"`
	Postcode              string  `bson:"postcode,omitempty" json:"postcode,omitempty"`
	Subject               string  `bson:"subject" json:"subject"`

	Status          string    `bson:"status" json:"status"`
	ZoomMeetingLink string    `bson:"zoom_meeting_link" json:"zoomMeetingLink"`
	EnrollmentDate  time.Time `bson:"enrollment_date" json:"enrollmentDate"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ClassRequestWithTeacher is a class request joined with its teacher's
// display name. TeacherName is nil when the teacher no longer exists.
type ClassRequestWithTeacher struct {
	ClassRequest `bson:",inline"`
	TeacherName  *string `bson:"teacher_name" json:"teacherName"`
}

// EntryStatusFor maps a class request status onto the status its course
// entry should carry. ok is false for statuses with no entry projection.
func EntryStatusFor(requestStatus string) (status string, ok bool) {
	switch requestStatus {
	case RequestPending:
		return EntryPending, true
	case RequestAccepted:
		return EntryActive, true
	default:
		return "", false
	}
}
