// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	"github.com/dalemusser/primementor/internal/app/store/audit"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/auditlog"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/primementor/internal/app/system/formutil"
	"github.com/dalemusser/primementor/internal/app/system/inputval"
	"github.com/dalemusser/primementor/internal/app/system/limits"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/ratelimit"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgInvalidCredentials = "Invalid credentials"

// Config carries the admin credential pair and token lifetimes.
type Config struct {
	AdminEmail        string
	AdminPasswordHash string
	AdminTTL          time.Duration
	TeacherTTL        time.Duration
}

// Handler issues admin and teacher tokens.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Tokens   *auth.Tokens
	Limiter  *ratelimit.LoginLimiter
	Teachers *teacherstore.Store
	Cfg      Config
}

func NewHandler(db *mongo.Database, tokens *auth.Tokens, limiter *ratelimit.LoginLimiter, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, cfg Config, logger *zap.Logger) *Handler {
	if cfg.AdminTTL <= 0 {
		cfg.AdminTTL = 24 * time.Hour
	}
	if cfg.TeacherTTL <= 0 {
		cfg.TeacherTTL = 7 * 24 * time.Hour
	}
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		AuditLog: auditLog,
		Tokens:   tokens,
		Limiter:  limiter,
		Teachers: teacherstore.New(db),
		Cfg:      cfg,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Payloads                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type loginInput struct {
	Email    string `json:"email" validate:"required,mailaddr" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type teacherView struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	Teacher *teacherView `json:"teacher,omitempty"`
}

// readInput decodes and validates the body and applies rate limiting.
// It writes the response and returns false when the request should stop.
func (h *Handler) readInput(w http.ResponseWriter, r *http.Request, role string) (loginInput, bool) {
	var in loginInput
	if err := formutil.DecodeJSON(w, r, &in, limits.MaxJSONBody); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login failed", err, "Invalid request body.")
		return in, false
	}
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.Fail(w, http.StatusBadRequest, res.First())
		return in, false
	}
	if ok, reason := h.Limiter.Check(r, in.Email); !ok {
		h.AuditLog.LoginFailed(r.Context(), r, audit.EventLoginFailedRateLimit, in.Email, role, "rate limited")
		uierrors.Fail(w, http.StatusTooManyRequests, reason)
		return in, false
	}
	return in, true
}

// AdminLogin handles POST /api/admin/login.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r, auth.RoleAdmin)
	if !ok {
		return
	}

	if h.Cfg.AdminEmail == "" || h.Cfg.AdminPasswordHash == "" {
		h.Log.Warn("admin login attempted but admin credentials are not configured")
		uierrors.RenderUnauthorized(w, msgInvalidCredentials)
		return
	}
	if in.Email != normalize.Email(h.Cfg.AdminEmail) {
		h.AuditLog.LoginFailed(r.Context(), r, audit.EventLoginFailedUnknownEmail, in.Email, auth.RoleAdmin, "unknown email")
		uierrors.RenderUnauthorized(w, msgInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.Cfg.AdminPasswordHash), []byte(in.Password)); err != nil {
		h.AuditLog.LoginFailed(r.Context(), r, audit.EventLoginFailedWrongPassword, in.Email, auth.RoleAdmin, "wrong password")
		uierrors.RenderUnauthorized(w, msgInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(auth.Principal{
		ID:    in.Email,
		Name:  "Admin",
		Email: in.Email,
		Role:  auth.RoleAdmin,
	}, h.Cfg.AdminTTL)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue admin token failed", err, "Server error during login")
		return
	}

	h.Limiter.Succeeded(in.Email)
	h.AuditLog.LoginSuccess(r.Context(), r, in.Email, auth.RoleAdmin)
	uierrors.JSON(w, http.StatusOK, loginResponse{Success: true, Token: token})
}

// TeacherLogin handles POST /api/teacher/login.
func (h *Handler) TeacherLogin(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r, auth.RoleTeacher)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Teachers.GetByEmail(ctx, in.Email)
	if errors.Is(err, teacherstore.ErrNotFound) {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedUnknownEmail, in.Email, auth.RoleTeacher, "unknown email")
		uierrors.RenderUnauthorized(w, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load teacher for login failed", err, "Server error during login")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(in.Password)); err != nil {
		h.AuditLog.LoginFailed(ctx, r, audit.EventLoginFailedWrongPassword, in.Email, auth.RoleTeacher, "wrong password")
		uierrors.RenderUnauthorized(w, msgInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(auth.Principal{
		ID:    t.ID.Hex(),
		Name:  t.Name,
		Email: t.Email,
		Role:  auth.RoleTeacher,
	}, h.Cfg.TeacherTTL)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue teacher token failed", err, "Server error during login")
		return
	}

	h.Limiter.Succeeded(in.Email)
	h.AuditLog.LoginSuccess(ctx, r, t.ID.Hex(), auth.RoleTeacher)
	uierrors.JSON(w, http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		Teacher: &teacherView{ID: t.ID.Hex(), Name: t.Name, Email: t.Email, Image: t.Image},
	})
}
