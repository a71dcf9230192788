// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	adminfeature "github.com/dalemusser/primementor/internal/app/features/admin"
	assessmentsfeature "github.com/dalemusser/primementor/internal/app/features/assessments"
	auditlogfeature "github.com/dalemusser/primementor/internal/app/features/auditlog"
	errorsfeature "github.com/dalemusser/primementor/internal/app/features/errors"
	healthfeature "github.com/dalemusser/primementor/internal/app/features/health"
	loginfeature "github.com/dalemusser/primementor/internal/app/features/login"
	teachersfeature "github.com/dalemusser/primementor/internal/app/features/teachers"
	userfeature "github.com/dalemusser/primementor/internal/app/features/user"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so deps.Runtime is populated.
//
// The API is JSON only. Admin and teacher routes authenticate with tokens
// issued at login; student routes accept identity provider tokens.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	rt := deps.Runtime
	if rt == nil || rt.Booking == nil {
		return nil, fmt.Errorf("build handler: startup did not run")
	}
	db := deps.MongoDatabase

	errLog := errorsfeature.NewErrorLogger(logger)
	errH := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(rt.Metrics.Middleware)
	r.NotFound(errH.NotFound)
	r.MethodNotAllowed(errH.MethodNotAllowed)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))
	r.Handle("/metrics", rt.Metrics.Handler())

	loginH := loginfeature.NewHandler(db, rt.Tokens, rt.Limiter, rt.AuditLog, errLog, loginfeature.Config{
		AdminEmail:        appCfg.AdminEmail,
		AdminPasswordHash: appCfg.AdminPasswordHash,
		AdminTTL:          appCfg.AdminTokenTTL,
		TeacherTTL:        appCfg.TeacherTokenTTL,
	}, logger)

	userH := userfeature.NewHandler(rt.Booking, rt.AuditLog, errLog, logger)
	r.Mount("/api/user", userfeature.Routes(userH, rt.Students, logger))

	adminH := adminfeature.NewHandler(db, rt.Booking, rt.AuditLog, errLog, logger)
	auditH := auditlogfeature.NewHandler(db, errLog, logger)
	r.Route("/api/admin", func(ar chi.Router) {
		ar.Mount("/login", loginfeature.AdminRoutes(loginH))
		ar.Mount("/audit-events", auditlogfeature.Routes(auditH, rt.Tokens, logger))
		ar.Mount("/", adminfeature.Routes(adminH, rt.Tokens, logger))
	})

	teachersH := teachersfeature.NewHandler(db, rt.Booking, rt.Uploads, rt.Tokens, appCfg.TeacherTokenTTL, rt.AuditLog, errLog, logger)
	r.Route("/api/teacher", func(tr chi.Router) {
		tr.Mount("/login", loginfeature.TeacherRoutes(loginH))
		tr.Mount("/", teachersfeature.Routes(teachersH, rt.Tokens, logger))
	})

	assessH := assessmentsfeature.NewHandler(db, rt.AuditLog, errLog, logger)
	r.Mount("/api/assessments", assessmentsfeature.Routes(assessH, rt.Tokens, logger))

	logger.Info("routes mounted", zap.Strings("cors_origins", appCfg.CORSAllowedOrigins))
	return r, nil
}
