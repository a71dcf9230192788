// internal/app/features/user/routes.go
package user

import (
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Routes mounts the student API behind identity verification.
func Routes(h *Handler, v auth.Verifier, logger *zap.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.Require(v, logger, auth.RoleStudent))
	r.Post("/book", h.Book)
	r.Get("/courses", h.Courses)
	return r
}
