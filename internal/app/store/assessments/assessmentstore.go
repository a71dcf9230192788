package assessmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/primementor/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no assessment matches.
	ErrNotFound  = errors.New("assessment not found")
	errBadStatus = errors.New("unknown assessment status")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assessments")}
}

// Create stores a submitted assessment request with status New.
func (s *Store) Create(ctx context.Context, a models.Assessment) (models.Assessment, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Status = models.AssessmentNew
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Assessment{}, err
	}
	return a, nil
}

// List returns assessments newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, status string) ([]models.Assessment, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Assessment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus moves an assessment through admin triage. notes replaces the
// stored admin notes when non-nil.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string, notes *string) (models.Assessment, error) {
	if !models.IsValidAssessmentStatus(status) {
		return models.Assessment{}, errBadStatus
	}
	set := bson.M{"status": status, "updated_at": time.Now().UTC()}
	if notes != nil {
		set["admin_notes"] = *notes
	}

	var a models.Assessment
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Assessment{}, ErrNotFound
	}
	if err != nil {
		return models.Assessment{}, err
	}
	return a, nil
}
