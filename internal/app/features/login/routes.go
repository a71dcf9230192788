// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// AdminRoutes serves POST / (mounted at /api/admin/login).
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.AdminLogin)
	return r
}

// TeacherRoutes serves POST / (mounted at /api/teacher/login).
func TeacherRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.TeacherLogin)
	return r
}
