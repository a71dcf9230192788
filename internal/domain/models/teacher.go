// internal/domain/models/teacher.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Teacher approval statuses.
const (
	TeacherPending  = "pending"
	TeacherApproved = "approved"
	TeacherRejected = "rejected"
)

// Teacher is a locally authenticated tutor.
//
// NOTE:
//   - PasswordHash is never serialized to JSON.
//   - Image and CVFile are opaque storage paths returned by the upload store.
//   - Banking and identity document fields are stored as given.
type Teacher struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	Image  string `bson:"image,omitempty" json:"image,omitempty"`
	CVFile string `bson:"cv_file,omitempty" json:"cvFile,omitempty"`

	Address      string `bson:"address,omitempty" json:"address,omitempty"`
	MobileNumber string `bson:"mobile_number,omitempty" json:"mobileNumber,omitempty"`
	Subject      string `bson:"subject,omitempty" json:"subject,omitempty"`

	AccountHolderName string `bson:"account_holder_name,omitempty" json:"accountHolderName,omitempty"`
	BankName          string `bson:"bank_name,omitempty" json:"bankName,omitempty"`
	IFSCCode          string `bson:"ifsc_code,omitempty" json:"ifscCode,omitempty"`
	AccountNumber     string `bson:"account_number,omitempty" json:"accountNumber,omitempty"`

	AadharCard string `bson:"aadhar_card,omitempty" json:"aadharCard,omitempty"`
	PanCard    string `bson:"pan_card,omitempty" json:"panCard,omitempty"`

	Status string `bson:"status" json:"status"` // pending | approved | rejected

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// TeacherSummary is the admin list projection of a teacher.
type TeacherSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// IsValidTeacherStatus reports whether s is a known approval status.
func IsValidTeacherStatus(s string) bool {
	switch s {
	case TeacherPending, TeacherApproved, TeacherRejected:
		return true
	}
	return false
}
