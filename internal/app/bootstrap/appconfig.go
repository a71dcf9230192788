// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level and request limits. AppConfig carries everything
// specific to the marketplace. It is built once at startup and passed to
// every lifecycle hook; nothing reads configuration from globals.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Tokens issued to admins and teachers
	JWTSecret       string
	TeacherTokenTTL time.Duration
	AdminTokenTTL   time.Duration

	// Admin credential pair (bcrypt hash, never the plain password)
	AdminEmail        string
	AdminPasswordHash string

	// Student identity provider
	IdentityJWTKey    string // PEM RSA public key
	IdentityJWTSecret string // HMAC secret (development)
	IdentityIssuer    string

	// Zoom server-to-server OAuth
	ZoomAccountID    string
	ZoomClientID     string
	ZoomClientSecret string
	ZoomHostUser     string
	ZoomAPIURL       string
	ZoomTokenURL     string
	ZoomTimeout      time.Duration

	// First-session meeting settings
	MeetingTimezone    string
	MeetingDuration    time.Duration
	MeetingFallbackURL string

	// File storage for teacher documents
	StorageType      string // "local" or "s3"
	StorageLocalPath string
	StorageS3Region  string
	StorageS3Bucket  string
	StorageS3Prefix  string

	CORSAllowedOrigins []string

	// Booking behaviour
	AutoAssignTeacher bool
	SyncInterval      time.Duration
	SyncMaxAttempts   int
	SyncRetention     time.Duration

	// Audit logging destinations: all | db | log | off
	AuditLogAuth    string
	AuditLogAdmin   string
	AuditLogBooking string

	// Login attempts per IP per minute
	LoginRateLimit int
}
