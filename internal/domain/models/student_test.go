package models

import "testing"

func TestStudent_FindCourse(t *testing.T) {
	load := func() Student {
		return Student{Courses: []CourseEntry{{Name: "Algebra"}, {Name: "Physics", SessionsRemaining: 5}}}
	}

	got, ok := load().FindCourse("Physics")
	if !ok || got.SessionsRemaining != 5 {
		t.Errorf("FindCourse(Physics) = %+v, %v", got, ok)
	}
	if _, ok := load().FindCourse("Chemistry"); ok {
		t.Error("FindCourse(Chemistry) found an entry")
	}
}
