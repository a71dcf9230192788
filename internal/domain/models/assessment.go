// internal/domain/models/assessment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assessment statuses used by admin triage.
const (
	AssessmentNew       = "New"
	AssessmentContacted = "Contacted"
	AssessmentScheduled = "Scheduled"
	AssessmentCompleted = "Completed"
	AssessmentCanceled  = "Canceled"
)

// NotProvided fills contact fields the submitter did not supply.
const NotProvided = "N/A"

// Assessment is a free assessment request captured by the public pricing flow.
type Assessment struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Role          string `bson:"role" json:"role"` // student | parent
	ClassRange    string `bson:"class_range" json:"classRange"`
	Year          string `bson:"year" json:"year"`
	Subject       string `bson:"subject" json:"subject"`
	Needs         string `bson:"needs" json:"needs"`
	State         string `bson:"state" json:"state"`
	ContactNumber string `bson:"contact_number" json:"contactNumber"`

	StudentFirstName string `bson:"student_first_name" json:"studentFirstName"`
	StudentLastName  string `bson:"student_last_name" json:"studentLastName"`
	StudentEmail     string `bson:"student_email" json:"studentEmail"`
	ParentFirstName  string `bson:"parent_first_name" json:"parentFirstName"`
	ParentLastName   string `bson:"parent_last_name" json:"parentLastName"`
	ParentEmail      string `bson:"parent_email" json:"parentEmail"`

	Status     string `bson:"status" json:"status"`
	AdminNotes string `bson:"admin_notes" json:"adminNotes"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsValidAssessmentStatus reports whether s is a known assessment status.
func IsValidAssessmentStatus(s string) bool {
	switch s {
	case AssessmentNew, AssessmentContacted, AssessmentScheduled, AssessmentCompleted, AssessmentCanceled:
		return true
	}
	return false
}
