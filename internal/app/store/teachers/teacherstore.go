package teacherstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no teacher matches.
	ErrNotFound = errors.New("teacher not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("a teacher with this email already exists")
	errBadStatus      = errors.New(`status must be "pending"|"approved"|"rejected"`)
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teachers")}
}

// Create inserts a teacher after normalizing name and email. Status
// defaults to pending.
func (s *Store) Create(ctx context.Context, t models.Teacher) (models.Teacher, error) {
	t.ID = primitive.NewObjectID()
	t.Name = normalize.Name(t.Name)
	t.NameCI = normalize.NameCI(t.Name)
	t.Email = normalize.Email(t.Email)
	if t.Status == "" {
		t.Status = models.TeacherPending
	}
	if !models.IsValidTeacherStatus(t.Status) {
		return models.Teacher{}, errBadStatus
	}

	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Teacher{}, ErrDuplicateEmail
		}
		return models.Teacher{}, err
	}
	return t, nil
}

// EmailExists reports whether a teacher is registered under email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"email": normalize.Email(email)}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID loads a teacher.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Teacher, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail loads a teacher by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Teacher, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Teacher, error) {
	var t models.Teacher
	err := s.c.FindOne(ctx, filter).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Teacher{}, ErrNotFound
	}
	if err != nil {
		return models.Teacher{}, err
	}
	return t, nil
}

// List returns every teacher as a summary ordered by name. An empty status
// lists all of them.
func (s *Store) List(ctx context.Context, status string) ([]models.TeacherSummary, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"name": 1, "email": 1, "subject": 1, "status": 1, "created_at": 1})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.TeacherSummary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete hard-deletes a teacher. Class requests that reference the teacher
// are left as they are.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus changes a teacher's approval status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.Teacher, error) {
	if !models.IsValidTeacherStatus(status) {
		return models.Teacher{}, errBadStatus
	}
	var t models.Teacher
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Teacher{}, ErrNotFound
	}
	if err != nil {
		return models.Teacher{}, err
	}
	return t, nil
}

// PickRandom returns a random approved teacher, or any teacher when none is
// approved. ErrNotFound means the roster is empty.
func (s *Store) PickRandom(ctx context.Context) (models.Teacher, error) {
	for _, match := range []bson.M{{"status": models.TeacherApproved}, {}} {
		cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
			{{Key: "$match", Value: match}},
			{{Key: "$sample", Value: bson.M{"size": 1}}},
		})
		if err != nil {
			return models.Teacher{}, err
		}
		var got []models.Teacher
		err = cur.All(ctx, &got)
		cur.Close(ctx)
		if err != nil {
			return models.Teacher{}, err
		}
		if len(got) > 0 {
			return got[0], nil
		}
	}
	return models.Teacher{}, ErrNotFound
}
