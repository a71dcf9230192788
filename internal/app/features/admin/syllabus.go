// internal/app/features/admin/syllabus.go
package admin

import (
	"net/http"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
)

// SyllabusItem is one row of the curriculum catalogue.
type SyllabusItem struct {
	ID            string `json:"id"`
	Subject       string `json:"subject"`
	Grades        string `json:"grades"`
	Alignment     string `json:"alignment"`
	ActiveCourses int    `json:"activeCourses"`
}

var syllabus = []SyllabusItem{
	{ID: "s1", Subject: "Mathematics", Grades: "Year 7-12", Alignment: "VCAA", ActiveCourses: 4},
	{ID: "s2", Subject: "Science", Grades: "Year 5-10", Alignment: "NESA", ActiveCourses: 6},
	{ID: "s3", Subject: "English", Grades: "Year 7-12", Alignment: "NESA", ActiveCourses: 3},
}

// Syllabus handles GET /api/admin/syllabus.
func (h *Handler) Syllabus(w http.ResponseWriter, r *http.Request) {
	uierrors.JSON(w, http.StatusOK, syllabus)
}
