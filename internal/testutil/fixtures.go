package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/primementor/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// TeacherPassword is the plain-text password of every fixture teacher.
const TeacherPassword = "password123"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateStudent inserts a student with no courses.
func (f *Fixtures) CreateStudent(ctx context.Context, clerkID, name string) models.Student {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Student{
		ID:            primitive.NewObjectID(),
		ClerkID:       clerkID,
		StudentName:   name,
		StudentNameCI: text.Fold(name),
		Courses:       []models.CourseEntry{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("students").InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return s
}

// AddCourseEntry appends an entry to the student with the given clerk id.
func (f *Fixtures) AddCourseEntry(ctx context.Context, clerkID string, e models.CourseEntry) {
	f.t.Helper()

	res, err := f.db.Collection("students").UpdateOne(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$push": bson.M{"courses": e}})
	if err != nil {
		f.t.Fatalf("failed to add course entry: %v", err)
	}
	if res.MatchedCount == 0 {
		f.t.Fatalf("no student with clerk id %q", clerkID)
	}
}

// CreateTeacher inserts a teacher whose password is TeacherPassword.
func (f *Fixtures) CreateTeacher(ctx context.Context, name, email, status string) models.Teacher {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TeacherPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	tc := models.Teacher{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Subject:      "Mathematics",
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("teachers").InsertOne(ctx, tc); err != nil {
		f.t.Fatalf("failed to create test teacher: %v", err)
	}
	return tc
}

// CreateClassRequest inserts a trial class request for the given student.
func (f *Fixtures) CreateClassRequest(ctx context.Context, studentID, courseTitle, status string, teacherID *primitive.ObjectID) models.ClassRequest {
	f.t.Helper()

	now := time.Now().UTC()
	cr := models.ClassRequest{
		ID:               primitive.NewObjectID(),
		CourseID:         "course-" + text.Fold(courseTitle),
		CourseTitle:      courseTitle,
		StudentID:        studentID,
		StudentName:      "Test Student",
		TeacherID:        teacherID,
		PurchaseType:     models.PurchaseTrial,
		PreferredDate:    "2026-11-02",
		ScheduleTime:     "10:00",
		NumberOfSessions: 1,
		Subject:          models.DefaultSubject,
		Status:           status,
		EnrollmentDate:   now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := f.db.Collection("class_requests").InsertOne(ctx, cr); err != nil {
		f.t.Fatalf("failed to create test class request: %v", err)
	}
	return cr
}
