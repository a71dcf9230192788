// internal/app/features/teachers/register.go
package teachers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/primementor/internal/app/features/errors"
	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/primementor/internal/app/system/formutil"
	"github.com/dalemusser/primementor/internal/app/system/htmlsanitize"
	"github.com/dalemusser/primementor/internal/app/system/inputval"
	"github.com/dalemusser/primementor/internal/app/system/limits"
	"github.com/dalemusser/primementor/internal/app/system/normalize"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"github.com/dalemusser/primementor/internal/app/system/uploads"
	"github.com/dalemusser/primementor/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

var (
	errFileTooLarge = errors.New("file too large")
	errFileType     = errors.New("unsupported file type")
)

type teacherView struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	Teacher teacherView `json:"teacher"`
}

// Register handles POST /api/teacher/register (multipart/form-data with
// optional "image" and "cv" files).
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxTeacherRegistration)
	if err := r.ParseMultipartForm(limits.MaxTeacherRegistration); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse teacher registration failed", err, "Invalid registration form.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	t := models.Teacher{
		Name:              formutil.Value(r, "name"),
		Email:             normalize.Email(formutil.Value(r, "email")),
		Address:           formutil.Value(r, "address"),
		MobileNumber:      formutil.Value(r, "mobileNumber"),
		Subject:           formutil.Value(r, "subject"),
		AccountHolderName: formutil.Value(r, "accountHolderName"),
		BankName:          formutil.Value(r, "bankName"),
		IFSCCode:          formutil.Value(r, "ifscCode"),
		AccountNumber:     formutil.Value(r, "accountNumber"),
		AadharCard:        formutil.Value(r, "aadharCard"),
		PanCard:           formutil.Value(r, "panCard"),
	}
	password := r.FormValue("password")
	htmlsanitize.Fields(&t.Name, &t.Address, &t.Subject, &t.AccountHolderName, &t.BankName)

	if normalize.Name(t.Name) == "" {
		uierrors.Fail(w, http.StatusBadRequest, "Name is required.")
		return
	}
	if !inputval.IsValidEmail(t.Email) {
		uierrors.Fail(w, http.StatusBadRequest, "Invalid email")
		return
	}
	if len(password) < minPasswordLen {
		uierrors.Fail(w, http.StatusBadRequest, "Password too short")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "teacher register")
	defer cancel()

	exists, err := h.Teachers.EmailExists(ctx, t.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check teacher email failed", err, "Server error during registration")
		return
	}
	if exists {
		uierrors.Fail(w, http.StatusConflict, "Teacher already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hash teacher password failed", err, "Server error during registration")
		return
	}
	t.PasswordHash = string(hash)

	if t.Image, err = h.storeFile(r, "image", "teachers/images", limits.MaxImageSize, isImage); err != nil {
		h.fileError(w, r, "image", err)
		return
	}
	if t.CVFile, err = h.storeFile(r, "cv", "teachers/cv", limits.MaxCVSize, isDocument); err != nil {
		h.discardUploads(r, t.Image)
		h.fileError(w, r, "cv", err)
		return
	}

	created, err := h.Teachers.Create(ctx, t)
	if err != nil {
		h.discardUploads(r, t.Image, t.CVFile)
		if errors.Is(err, teacherstore.ErrDuplicateEmail) {
			uierrors.Fail(w, http.StatusConflict, "Teacher already exists")
			return
		}
		h.ErrLog.LogServerError(w, r, "create teacher failed", err, "Server error during registration")
		return
	}

	token, err := h.Tokens.Issue(auth.Principal{
		ID:    created.ID.Hex(),
		Name:  created.Name,
		Email: created.Email,
		Role:  auth.RoleTeacher,
	}, h.TokenTTL)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "issue teacher token failed", err, "Server error during registration")
		return
	}

	h.AuditLog.TeacherRegistered(ctx, r, created.ID.Hex(), created.Email)
	h.Log.Info("teacher registered", zap.String("teacher_id", created.ID.Hex()))
	uierrors.JSON(w, http.StatusCreated, authResponse{
		Success: true,
		Token:   token,
		Teacher: teacherView{ID: created.ID.Hex(), Name: created.Name, Email: created.Email, Image: created.Image},
	})
}

// storeFile uploads the named form file and returns its storage path, or
// "" when the field is absent.
func (h *Handler) storeFile(r *http.Request, field, category string, maxSize int64, allowed func(string) bool) (string, error) {
	f, fh, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	if fh.Size > maxSize {
		return "", errFileTooLarge
	}
	ct := contentType(fh)
	if !allowed(ct) {
		return "", errFileType
	}
	if h.Uploads == nil {
		return "", errors.New("upload storage not configured")
	}
	info, err := uploads.Upload(r.Context(), h.Uploads, category, fh.Filename, f, fh.Size, ct)
	if err != nil {
		return "", err
	}
	return info.Path, nil
}

// discardUploads removes files stored for a registration that failed.
func (h *Handler) discardUploads(r *http.Request, keys ...string) {
	if h.Uploads == nil {
		return
	}
	uploads.Discard(r.Context(), h.Uploads, h.Log, keys...)
}

func (h *Handler) fileError(w http.ResponseWriter, r *http.Request, field string, err error) {
	switch {
	case errors.Is(err, errFileTooLarge):
		uierrors.Fail(w, http.StatusBadRequest, "The "+field+" file is too large.")
	case errors.Is(err, errFileType):
		uierrors.Fail(w, http.StatusBadRequest, "The "+field+" file type is not supported.")
	default:
		h.ErrLog.LogServerError(w, r, "store teacher "+field+" failed", err, "Server error during registration")
	}
}

func contentType(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func isImage(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func isDocument(ct string) bool {
	switch ct {
	case "application/pdf", "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return true
	}
	return false
}
