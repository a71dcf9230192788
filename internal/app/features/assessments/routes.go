// internal/app/features/assessments/routes.go
package assessments

import (
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts /api/assessments. Submission is public; triage is admin only.
func Routes(h *Handler, v auth.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Post("/submit", h.Submit)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Require(v, logger, auth.RoleAdmin))
		pr.Get("/", h.List)
		pr.Put("/{id}/status", h.SetStatus)
	})

	return r
}
