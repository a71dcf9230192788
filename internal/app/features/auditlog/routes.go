// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the audit event list (typically at /api/admin/audit-events).
// Access is restricted to admins.
func Routes(h *Handler, v auth.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Require(v, logger, auth.RoleAdmin))
		pr.Get("/", h.ServeList)
	})

	return r
}
