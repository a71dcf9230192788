// internal/app/features/teachers/routes.go
package teachers

import (
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the teacher API under /api/teacher. Registration is
// public; everything else requires a live teacher token. Login is
// mounted by the login feature.
func Routes(h *Handler, v auth.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.Register)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Require(ActiveTeacher{Tokens: v, Teachers: h.Teachers}, logger, auth.RoleTeacher))
		pr.Get("/class-requests", h.ClassRequests)
		pr.Put("/class-requests/{id}/accept", h.Accept)
		pr.Get("/managed-classes", h.ManagedClasses)
	})

	return r
}
