package classrequeststore

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

// ErrNotFound is returned when no request matches, including conditional
// updates whose status guard did not hold.
var ErrNotFound = errors.New("class request not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("class_requests")}
}

// Create inserts cr as a new pending request.
func (s *Store) Create(ctx context.Context, cr models.ClassRequest) (models.ClassRequest, error) {
	now := time.Now().UTC()
	if cr.ID.IsZero() {
		cr.ID = primitive.NewObjectID()
	}
	if cr.Status == "" {
		cr.Status = models.RequestPending
	}
	if cr.Subject == "" {
		cr.Subject = models.DefaultSubject
	}
	if cr.EnrollmentDate.IsZero() {
		cr.EnrollmentDate = now
	}
	cr.CreatedAt = now
	cr.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, cr); err != nil {
		return models.ClassRequest{}, err
	}
	return cr, nil
}

// Delete removes a request. It only backs out a booking whose entry write
// failed; nothing else hard-deletes requests.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// GetByID loads a request.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ClassRequest, error) {
	var cr models.ClassRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ClassRequest{}, ErrNotFound
	}
	if err != nil {
		return models.ClassRequest{}, err
	}
	return cr, nil
}

// ListPending returns every pending request, oldest enrollment first.
func (s *Store) ListPending(ctx context.Context) ([]models.ClassRequest, error) {
	return s.find(ctx, bson.M{"status": models.RequestPending},
		bson.D{{Key: "enrollment_date", Value: 1}, {Key: "_id", Value: 1}})
}

// ListForTeacher returns the teacher's requests. An empty status returns all
// of them, newest first; accepted requests are ordered by first session date.
func (s *Store) ListForTeacher(ctx context.Context, teacherID primitive.ObjectID, status string) ([]models.ClassRequest, error) {
	filter := bson.M{"teacher_id": teacherID}
	sort := bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	if status != "" {
		filter["status"] = status
	}
	if status == models.RequestAccepted {
		sort = bson.D{{Key: "preferred_date", Value: 1}, {Key: "_id", Value: 1}}
	}
	return s.find(ctx, filter, sort)
}

func (s *Store) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.ClassRequest, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ClassRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAcceptedWithTeacher returns accepted requests joined with their
// teacher's name. TeacherName is nil when the teacher has been deleted.
func (s *Store) ListAcceptedWithTeacher(ctx context.Context) ([]models.ClassRequestWithTeacher, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.RequestAccepted}}},
		{{Key: "$sort", Value: bson.D{{Key: "preferred_date", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "teachers",
			"localField":   "teacher_id",
			"foreignField": "_id",
			"as":           "teacher",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"teacher_name": bson.M{"$ifNull": bson.A{
				bson.M{"$arrayElemAt": bson.A{"$teacher.name", 0}},
				nil,
			}},
		}}},
		{{Key: "$project", Value: bson.M{"teacher": 0}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ClassRequestWithTeacher{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Assign sets the teacher on a pending request and accepts it.
// ErrNotFound covers both a missing request and one already processed.
func (s *Store) Assign(ctx context.Context, id, teacherID primitive.ObjectID) (models.ClassRequest, error) {
	return s.transition(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"teacher_id": teacherID, "status": models.RequestAccepted},
	)
}

// AcceptByTeacher accepts a pending request already assigned to teacherID.
func (s *Store) AcceptByTeacher(ctx context.Context, id, teacherID primitive.ObjectID) (models.ClassRequest, error) {
	return s.transition(ctx,
		bson.M{"_id": id, "teacher_id": teacherID, "status": models.RequestPending},
		bson.M{"status": models.RequestAccepted},
	)
}

// SetLink stores the meeting link on an accepted request.
func (s *Store) SetLink(ctx context.Context, id primitive.ObjectID, link string) (models.ClassRequest, error) {
	return s.transition(ctx,
		bson.M{"_id": id, "status": models.RequestAccepted},
		bson.M{"zoom_meeting_link": link},
	)
}

func (s *Store) transition(ctx context.Context, filter, set bson.M) (models.ClassRequest, error) {
	set["updated_at"] = time.Now().UTC()

	var cr models.ClassRequest
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ClassRequest{}, ErrNotFound
	}
	if err != nil {
		return models.ClassRequest{}, err
	}
	return cr, nil
}
