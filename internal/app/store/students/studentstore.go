package studentstore

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
	// ErrNotFound is returned when no student matches.
	ErrNotFound = errors.New("student not found")
	// ErrCourseExists is returned when the student already has an entry for the course title.
	ErrCourseExists = errors.New("student already enrolled in this course")
	// ErrNoEntry is returned by SyncEntry when no course entry matches the request.
	ErrNoEntry = errors.New("no course entry matches the class request")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

// Profile is the identity data used when a student record is created on demand.
type Profile struct {
	Email     string
	FirstName string
}

// EnsureByClerkID returns the student for the identity subject, creating it
// on first sight. Existing records are never overwritten by the profile.
//
// If the profile email already belongs to another student the record is
// created without an email rather than failing the caller.
func (s *Store) EnsureByClerkID(ctx context.Context, clerkID string, p Profile) (models.Student, error) {
	st, err := s.upsert(ctx, clerkID, p, true)
	if err == nil {
		return st, nil
	}
	if !wafflemongo.IsDup(err) {
		return models.Student{}, err
	}

	// Either a concurrent upsert won the clerk_id race or the email is taken.
	if st, err := s.GetByClerkID(ctx, clerkID); err == nil {
		return st, nil
	} else if !errors.Is(err, ErrNotFound) {
		return models.Student{}, err
	}
	return s.upsert(ctx, clerkID, p, false)
}

func (s *Store) upsert(ctx context.Context, clerkID string, p Profile, withEmail bool) (models.Student, error) {
	name := normalize.FirstName(p.FirstName)
	if name == "" {
		name = models.DefaultStudentName
	}
	now := time.Now().UTC()

	onInsert := bson.M{
		"clerk_id":        clerkID,
		"student_name":    name,
		"student_name_ci": normalize.NameCI(name),
		"courses":         bson.A{},
		"created_at":      now,
		"updated_at":      now,
	}
	if email := normalize.Email(p.Email); withEmail && email != "" {
		onInsert["email"] = email
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var st models.Student
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$setOnInsert": onInsert},
		opts,
	).Decode(&st)
	if err != nil {
		return models.Student{}, err
	}
	return st, nil
}

// GetByClerkID loads a student by identity subject.
func (s *Store) GetByClerkID(ctx context.Context, clerkID string) (models.Student, error) {
	var st models.Student
	err := s.c.FindOne(ctx, bson.M{"clerk_id": clerkID}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Student{}, ErrNotFound
	}
	if err != nil {
		return models.Student{}, err
	}
	return st, nil
}

// HasCourse reports whether the student already has an entry with the title.
func (s *Store) HasCourse(ctx context.Context, clerkID, title string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"clerk_id": clerkID, "courses.name": title},
		options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddCourse appends e to the student's courses. The filter refuses the write
// when an entry with the same name exists, so concurrent bookings of one
// course cannot both succeed.
func (s *Store) AddCourse(ctx context.Context, clerkID string, e models.CourseEntry) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"clerk_id": clerkID, "courses.name": bson.M{"$ne": e.Name}},
		bson.M{
			"$push": bson.M{"courses": e},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetByClerkID(ctx, clerkID); err != nil {
			return err
		}
		return ErrCourseExists
	}
	return nil
}

// EntryUpdate is the projection of a class request onto its course entry.
// Nil pointers leave the field untouched.
type EntryUpdate struct {
	Status  string
	Teacher *string
	Link    *string
}

// SyncEntry applies u to the course entry mirroring the class request.
// The entry is found by request id, falling back to the course title for
// legacy entries written before request ids were recorded; a legacy entry is
// linked to the request as part of the update. ErrNoEntry means nothing
// matched.
func (s *Store) SyncEntry(ctx context.Context, clerkID string, requestID primitive.ObjectID, title string, u EntryUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Status != "" {
		set["courses.$.status"] = u.Status
	}
	if u.Teacher != nil {
		set["courses.$.teacher"] = *u.Teacher
	}
	if u.Link != nil {
		set["courses.$.zoom_meeting_url"] = *u.Link
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"clerk_id": clerkID, "courses.request_id": requestID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	set["courses.$.request_id"] = requestID
	res, err = s.c.UpdateOne(ctx,
		bson.M{
			"clerk_id": clerkID,
			"courses": bson.M{"$elemMatch": bson.M{
				"name":       title,
				"request_id": bson.M{"$exists": false},
			}},
		},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoEntry
	}
	return nil
}

// Summary is the admin list projection of a student.
type Summary struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	ClerkID     string               `bson:"clerk_id" json:"clerkId"`
	StudentName string               `bson:"student_name" json:"studentName"`
	Email       string               `bson:"email,omitempty" json:"email"`
	Courses     []models.CourseEntry `bson:"courses" json:"courses"`
	CreatedAt   time.Time            `bson:"created_at" json:"createdAt"`
}

// List returns every student, newest first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{
			"clerk_id":     1,
			"student_name": 1,
			"email":        1,
			"courses":      1,
			"created_at":   1,
		})

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
