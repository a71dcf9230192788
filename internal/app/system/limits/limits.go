// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the maximum size of a JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxTeacherRegistration is the maximum size of the multipart
	// registration form, files included.
	MaxTeacherRegistration = 16 << 20 // 16 MB

	// MaxImageSize is the maximum size of a teacher profile image.
	MaxImageSize = 5 << 20 // 5 MB

	// MaxCVSize is the maximum size of a teacher CV.
	MaxCVSize = 10 << 20 // 10 MB
)
