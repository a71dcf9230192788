// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/primementor/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and attaches JSON-Schema
// validators. Deployments without collMod validators are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("students", studentsSchema())
	ensure("class_requests", classRequestsSchema())
	ensure("teachers", teachersSchema())
	ensure("booking_sync_jobs", syncJobsSchema())
	ensure("assessments", assessmentsSchema())
	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection reports created==true only when it actually created name.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	if exists, listErr := collectionExists(ctx, db, name); listErr == nil && exists {
		zap.L().Debug("collection exists", zap.String("collection", name))
		return false, nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrorMatches(err error, code int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrorMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrorMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrorMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func nullableString() bson.M { return bson.M{"bsonType": bson.A{"string", "null"}} }

func studentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"clerk_id", "student_name", "courses"},
			"properties": bson.M{
				"clerk_id":     nonBlank,
				"student_name": nonBlank,
				"email":        bson.M{"bsonType": "string"},
				"courses": bson.M{
					"bsonType": "array",
					"items": bson.M{
						"bsonType": "object",
						"required": bson.A{"name", "status", "sessions_remaining"},
						"properties": bson.M{
							"request_id":              bson.M{"bsonType": "objectId"},
							"name":                    nonBlank,
							"teacher":                 bson.M{"bsonType": "string"},
							"preferred_time_mon_fri":  nullableString(),
							"preferred_time_saturday": nullableString(),
							"sessions_remaining":      bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
							"status":                  bson.M{"enum": bson.A{models.EntryPending, models.EntryActive, models.EntryCompleted}},
							"zoom_meeting_url":        bson.M{"bsonType": "string"},
						},
					},
				},
			},
		},
	}
}

func classRequestsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"course_id", "course_title", "student_id", "purchase_type", "status", "enrollment_date"},
			"properties": bson.M{
				"course_id":         nonBlank,
				"course_title":      nonBlank,
				"student_id":        nonBlank,
				"student_name":      bson.M{"bsonType": "string"},
				"teacher_id":        bson.M{"bsonType": bson.A{"objectId", "null"}},
				"purchase_type":     bson.M{"enum": bson.A{models.PurchaseTrial, models.PurchaseStarterPack}},
				"status":            bson.M{"enum": bson.A{models.RequestPending, models.RequestAccepted, models.RequestRejected}},
				"zoom_meeting_link": bson.M{"bsonType": "string"},
				"enrollment_date":   bson.M{"bsonType": "date"},
			},
		},
	}
}

func teachersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "password_hash", "status"},
			"properties": bson.M{
				"name":          nonBlank,
				"email":         nonBlank,
				"password_hash": nonBlank,
				"status":        bson.M{"enum": bson.A{models.TeacherPending, models.TeacherApproved, models.TeacherRejected}},
			},
		},
	}
}

func syncJobsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"request_id", "reason", "status", "attempts", "next_attempt_at"},
			"properties": bson.M{
				"request_id":      bson.M{"bsonType": "objectId"},
				"reason":          bson.M{"enum": bson.A{models.SyncReasonCreate, models.SyncReasonAssign, models.SyncReasonLink, models.SyncReasonAccept}},
				"status":          bson.M{"enum": bson.A{models.SyncPending, models.SyncDone, models.SyncFailed}},
				"attempts":        bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"next_attempt_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func assessmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"role", "subject", "status"},
			"properties": bson.M{
				"role":    bson.M{"enum": bson.A{"student", "parent"}},
				"subject": nonBlank,
				"status": bson.M{"enum": bson.A{
					models.AssessmentNew, models.AssessmentContacted, models.AssessmentScheduled,
					models.AssessmentCompleted, models.AssessmentCanceled,
				}},
			},
		},
	}
}
