// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the admin console under /api/admin. Login is mounted
// separately so it stays public.
func Routes(h *Handler, v auth.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Require(v, logger, auth.RoleAdmin))

	r.Get("/students", h.ListStudents)
	r.Get("/syllabus", h.Syllabus)

	r.Route("/teachers", func(tr chi.Router) {
		tr.Get("/", h.ListTeachers)
		tr.Get("/{id}", h.GetTeacher)
		tr.Delete("/{id}", h.DeleteTeacher)
		tr.Put("/{id}/status", h.SetTeacherStatus)
	})

	r.Route("/class-requests", func(cr chi.Router) {
		cr.Get("/pending", h.ListPending)
		cr.Get("/accepted", h.ListAccepted)
		cr.Put("/{id}/assign", h.Assign)
		cr.Put("/{id}/link", h.AttachLink)
	})

	r.Get("/sync-jobs", h.ListSyncJobs)
	r.Post("/sync-jobs/retry", h.RetrySyncJobs)

	return r
}
