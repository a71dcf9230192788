// internal/domain/models/syncjob.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sync job statuses.
const (
	SyncPending = "pending"
	SyncDone    = "done"
	SyncFailed  = "failed"
)

// Sync job reasons, one per state change that touches a booking.
const (
	SyncReasonCreate = "create"
	SyncReasonAssign = "assign"
	SyncReasonLink   = "link"
	SyncReasonAccept = "accept"
)

// SyncJob is an outbox record asking for a class request's course entry to
// be reconciled. Jobs are written next to the state change and worked off
// either inline or by the booking sync worker.
type SyncJob struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RequestID     primitive.ObjectID `bson:"request_id" json:"requestId"`
	Reason        string             `bson:"reason" json:"reason"`
	Status        string             `bson:"status" json:"status"`
	Attempts      int                `bson:"attempts" json:"attempts"`
	LastError     string             `bson:"last_error,omitempty" json:"lastError,omitempty"`
	NextAttemptAt time.Time          `bson:"next_attempt_at" json:"nextAttemptAt"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
