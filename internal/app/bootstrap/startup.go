// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/primementor/internal/app/booking"
	"github.com/dalemusser/primementor/internal/app/store/audit"
	metricsstore "github.com/dalemusser/primementor/internal/app/store/metrics"
	syncjobstore "github.com/dalemusser/primementor/internal/app/store/syncjobs"
	"github.com/dalemusser/primementor/internal/app/system/auditlog"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/primementor/internal/app/system/identity"
	"github.com/dalemusser/primementor/internal/app/system/meeting"
	"github.com/dalemusser/primementor/internal/app/system/metrics"
	"github.com/dalemusser/primementor/internal/app/system/ratelimit"
	"github.com/dalemusser/primementor/internal/app/system/tasks"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// tokenIssuer is the iss claim on admin and teacher tokens.
const tokenIssuer = "primementor"

// Runtime holds the long-lived services built in Startup.
type Runtime struct {
	Metrics   *metrics.Metrics
	Booking   *booking.Service
	Uploads   storage.Store
	Tokens    *auth.Tokens
	Students  auth.Verifier
	Limiter   *ratelimit.LoginLimiter
	AuditLog  *auditlog.Logger
	Scheduler *tasks.Scheduler
}

// countNames are the gauges exported from metricsstore.FetchCounts.
var countNames = []string{
	"students",
	"teachers_pending",
	"teachers_approved",
	"class_requests_pending",
	"class_requests_accepted",
	"sync_jobs_pending",
	"sync_jobs_failed",
	"assessments_new",
}

// Startup runs after the DB is connected and the schema is ensured, and
// before the HTTP server starts. It builds every service the handlers
// need and starts the background scheduler.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	rt := deps.Runtime
	if rt == nil {
		return fmt.Errorf("startup: runtime not allocated")
	}

	timeouts.Configure(timeouts.Config{Upstream: appCfg.ZoomTimeout})

	built, err := buildRuntime(ctx, appCfg, deps, logger)
	if err != nil {
		return err
	}
	*rt = *built

	rt.Scheduler.Start()
	logger.Info("startup complete",
		zap.Bool("auto_assign", appCfg.AutoAssignTeacher),
		zap.String("storage", appCfg.StorageType))
	return nil
}

// buildRuntime constructs the services and registers background jobs
// without starting them.
func buildRuntime(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*Runtime, error) {
	db := deps.MongoDatabase
	rt := &Runtime{Metrics: metrics.New()}

	rt.Metrics.RegisterCounts(func(ctx context.Context) (map[string]float64, error) {
		c, err := metricsstore.FetchCounts(ctx, db)
		return map[string]float64{
			"students":                float64(c.Students),
			"teachers_pending":        float64(c.TeachersPending),
			"teachers_approved":       float64(c.TeachersApproved),
			"class_requests_pending":  float64(c.RequestsPending),
			"class_requests_accepted": float64(c.RequestsAccepted),
			"sync_jobs_pending":       float64(c.SyncJobsPending),
			"sync_jobs_failed":        float64(c.SyncJobsFailed),
			"assessments_new":         float64(c.AssessmentsNew),
		}, err
	}, countNames, timeouts.Medium())

	loc, err := time.LoadLocation(appCfg.MeetingTimezone)
	if err != nil {
		return nil, fmt.Errorf("meeting timezone: %w", err)
	}

	rt.Booking = booking.New(db, buildMeetings(appCfg, logger), rt.Metrics, logger, booking.Config{
		AutoAssign:      appCfg.AutoAssignTeacher,
		FallbackURL:     appCfg.MeetingFallbackURL,
		MeetingDuration: appCfg.MeetingDuration,
		Location:        loc,
	})

	rt.Uploads, err = buildUploads(ctx, appCfg)
	if err != nil {
		logger.Error("file storage init failed", zap.Error(err))
		return nil, err
	}

	rt.Tokens, err = auth.NewTokens(appCfg.JWTSecret, tokenIssuer)
	if err != nil {
		return nil, err
	}

	rt.Students, err = buildStudentVerifier(appCfg, logger)
	if err != nil {
		return nil, err
	}

	rt.Limiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit)

	rt.AuditLog = auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Admin:   appCfg.AuditLogAdmin,
		Booking: appCfg.AuditLogBooking,
	})

	rt.Scheduler = tasks.NewScheduler(logger)
	worker := workers.NewBookingSync(db, rt.Booking, rt.Metrics, logger, workers.BookingSyncConfig{
		MaxAttempts: appCfg.SyncMaxAttempts,
	})
	if err := rt.Scheduler.Add(tasks.BookingSyncJob(worker, appCfg.SyncInterval)); err != nil {
		return nil, err
	}
	if err := rt.Scheduler.Add(tasks.SyncJobPruneJob(syncjobstore.New(db), logger, appCfg.SyncRetention)); err != nil {
		return nil, err
	}

	return rt, nil
}

// buildMeetings returns the Zoom provisioner when credentials are set.
func buildMeetings(appCfg AppConfig, logger *zap.Logger) meeting.Provisioner {
	zc := meeting.ZoomConfig{
		AccountID:    appCfg.ZoomAccountID,
		ClientID:     appCfg.ZoomClientID,
		ClientSecret: appCfg.ZoomClientSecret,
		HostUser:     appCfg.ZoomHostUser,
		APIURL:       appCfg.ZoomAPIURL,
		TokenURL:     appCfg.ZoomTokenURL,
		Timezone:     appCfg.MeetingTimezone,
		Timeout:      timeouts.Upstream(),
	}
	if !zc.Configured() {
		logger.Warn("zoom credentials not configured; bookings use the fallback meeting link")
		return meeting.Disabled{}
	}
	return meeting.NewZoom(zc, &http.Client{Timeout: timeouts.Upstream()}, logger)
}

// buildUploads selects the teacher document store.
func buildUploads(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	if appCfg.StorageType == "s3" {
		return storage.NewS3(ctx, storage.S3Config{
			Region:     appCfg.StorageS3Region,
			Bucket:     appCfg.StorageS3Bucket,
			Prefix:     appCfg.StorageS3Prefix,
			DefaultACL: "private",
		})
	}
	return storage.NewLocal(storage.LocalConfig{BasePath: appCfg.StorageLocalPath})
}

// buildStudentVerifier checks identity provider tokens. With no key
// configured every student token is rejected.
func buildStudentVerifier(appCfg AppConfig, logger *zap.Logger) (auth.Verifier, error) {
	if appCfg.IdentityJWTKey == "" && appCfg.IdentityJWTSecret == "" {
		return auth.VerifierFunc(func(context.Context, string) (*auth.Principal, error) {
			return nil, auth.ErrInvalidToken
		}), nil
	}
	v, err := identity.New(identity.Config{
		PublicKeyPEM: appCfg.IdentityJWTKey,
		Secret:       appCfg.IdentityJWTSecret,
		Issuer:       appCfg.IdentityIssuer,
	})
	if err != nil {
		logger.Error("identity verifier init failed", zap.Error(err))
		return nil, err
	}
	return v, nil
}
