// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/primementor/internal/app/system/auditlog"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// devJWTSecret signs tokens in dev when jwt_secret is unset.
const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for Prime Mentor.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: PRIMEMENTOR_MONGO_URI, PRIMEMENTOR_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "prime_mentor", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tokens
	{Name: "jwt_secret", Default: "", Desc: "Secret for admin and teacher tokens (required outside dev)"},
	{Name: "teacher_token_ttl", Default: "168h", Desc: "Teacher token lifetime"},
	{Name: "admin_token_ttl", Default: "24h", Desc: "Admin token lifetime"},

	// Admin credentials
	{Name: "admin_email", Default: "", Desc: "Admin login email"},
	{Name: "admin_password_hash", Default: "", Desc: "bcrypt hash of the admin password"},

	// Student identity provider
	{Name: "identity_jwt_key", Default: "", Desc: "PEM RSA public key for student tokens"},
	{Name: "identity_jwt_secret", Default: "", Desc: "HMAC secret for student tokens (development)"},
	{Name: "identity_issuer", Default: "", Desc: "Expected issuer of student tokens (blank skips the check)"},

	// Zoom
	{Name: "zoom_account_id", Default: "", Desc: "Zoom server-to-server account id"},
	{Name: "zoom_client_id", Default: "", Desc: "Zoom OAuth client id"},
	{Name: "zoom_client_secret", Default: "", Desc: "Zoom OAuth client secret"},
	{Name: "zoom_host_user", Default: "me", Desc: "Zoom user that owns created meetings"},
	{Name: "zoom_api_url", Default: "https://api.zoom.us/v2", Desc: "Zoom API base URL"},
	{Name: "zoom_token_url", Default: "https://zoom.us/oauth/token", Desc: "Zoom OAuth token URL"},
	{Name: "zoom_timeout", Default: "15s", Desc: "Timeout for each Zoom API call"},

	// Meetings
	{Name: "meeting_timezone", Default: "UTC", Desc: "IANA zone used to read booked dates and times"},
	{Name: "meeting_duration_minutes", Default: 60, Desc: "Length of the first session in minutes"},
	{Name: "meeting_fallback_url", Default: "https://zoom.us/j/fallback_dummy_meeting_url", Desc: "Link stored when no meeting could be created"},

	// File storage
	{Name: "storage_type", Default: "local", Desc: "Storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./uploads", Desc: "Local storage path for teacher documents"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "teachers/", Desc: "S3 key prefix"},

	// CORS
	{Name: "cors_allowed_origins", Default: "http://localhost:5173", Desc: "Comma-separated allowed browser origins"},

	// Booking
	{Name: "auto_assign_teacher", Default: false, Desc: "Pick a random teacher when a booking is created"},
	{Name: "sync_interval", Default: "30s", Desc: "How often the booking sync worker runs"},
	{Name: "sync_max_attempts", Default: 5, Desc: "Attempts before a sync job is marked failed"},
	{Name: "sync_retention", Default: "168h", Desc: "How long completed sync jobs are kept"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_booking", Default: "all", Desc: "Booking event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts per IP per minute"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// WAFFLE_* and PRIMEMENTOR_* environment variables and command-line flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PRIMEMENTOR", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:       appValues.String("jwt_secret"),
		TeacherTokenTTL: appValues.Duration("teacher_token_ttl", 7*24*time.Hour),
		AdminTokenTTL:   appValues.Duration("admin_token_ttl", 24*time.Hour),

		AdminEmail:        appValues.String("admin_email"),
		AdminPasswordHash: appValues.String("admin_password_hash"),

		IdentityJWTKey:    appValues.String("identity_jwt_key"),
		IdentityJWTSecret: appValues.String("identity_jwt_secret"),
		IdentityIssuer:    appValues.String("identity_issuer"),

		ZoomAccountID:    appValues.String("zoom_account_id"),
		ZoomClientID:     appValues.String("zoom_client_id"),
		ZoomClientSecret: appValues.String("zoom_client_secret"),
		ZoomHostUser:     appValues.String("zoom_host_user"),
		ZoomAPIURL:       appValues.String("zoom_api_url"),
		ZoomTokenURL:     appValues.String("zoom_token_url"),
		ZoomTimeout:      appValues.Duration("zoom_timeout", 15*time.Second),

		MeetingTimezone:    appValues.String("meeting_timezone"),
		MeetingDuration:    time.Duration(appValues.Int("meeting_duration_minutes")) * time.Minute,
		MeetingFallbackURL: appValues.String("meeting_fallback_url"),

		StorageType:      appValues.String("storage_type"),
		StorageLocalPath: appValues.String("storage_local_path"),
		StorageS3Region:  appValues.String("storage_s3_region"),
		StorageS3Bucket:  appValues.String("storage_s3_bucket"),
		StorageS3Prefix:  appValues.String("storage_s3_prefix"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		AutoAssignTeacher: appValues.Bool("auto_assign_teacher"),
		SyncInterval:      appValues.Duration("sync_interval", 30*time.Second),
		SyncMaxAttempts:   appValues.Int("sync_max_attempts"),
		SyncRetention:     appValues.Duration("sync_retention", 7*24*time.Hour),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogAdmin:   appValues.String("audit_log_admin"),
		AuditLogBooking: appValues.String("audit_log_booking"),

		LoginRateLimit: appValues.Int("login_rate_limit"),
	}

	if appCfg.JWTSecret == "" && coreCfg.Env == "dev" {
		appCfg.JWTSecret = devJWTSecret
		logger.Warn("jwt_secret not set; using the development secret")
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.JWTSecret == "" {
		return errors.New("jwt_secret is required outside dev")
	}

	switch appCfg.StorageType {
	case "local", "":
	case "s3":
		if appCfg.StorageS3Bucket == "" {
			return errors.New("storage_type=s3 requires storage_s3_bucket")
		}
	default:
		return fmt.Errorf("unknown storage_type %q (want local or s3)", appCfg.StorageType)
	}

	if _, err := time.LoadLocation(appCfg.MeetingTimezone); err != nil {
		return fmt.Errorf("invalid meeting_timezone %q: %w", appCfg.MeetingTimezone, err)
	}

	for key, v := range map[string]string{
		"audit_log_auth":    appCfg.AuditLogAuth,
		"audit_log_admin":   appCfg.AuditLogAdmin,
		"audit_log_booking": appCfg.AuditLogBooking,
	} {
		switch v {
		case auditlog.All, auditlog.DB, auditlog.Log, auditlog.Off, "":
		default:
			return fmt.Errorf("%s must be all, db, log or off (got %q)", key, v)
		}
	}

	if appCfg.AdminEmail == "" || appCfg.AdminPasswordHash == "" {
		logger.Warn("admin credentials not configured; admin login is disabled")
	}
	if appCfg.IdentityJWTKey == "" && appCfg.IdentityJWTSecret == "" {
		logger.Warn("no identity key configured; student endpoints will reject every token")
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
