// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/dalemusser/primementor/internal/app/system/apperr"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures with request context and writes the
// matching JSON error response.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogServerError logs err at error level and writes a 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg, e.fields(r, err)...)
	Fail(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs err at warn level and writes a 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Warn(logMsg, e.fields(r, err)...)
	Fail(w, http.StatusBadRequest, userMsg)
}

// Write maps an apperr-classified error to its status and message.
// Internal and upstream failures are logged at error level; client
// errors only at debug.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindInternal, apperr.KindUpstream:
		e.log.Error(logMsg, e.fields(r, err)...)
	default:
		e.log.Debug(logMsg, append(e.fields(r, err), zap.String("kind", kind.String()))...)
	}
	Fail(w, kind.Status(), apperr.Message(err))
}
