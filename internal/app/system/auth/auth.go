// Package auth authenticates API callers from bearer tokens and carries the
// resulting principal in the request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var (
	// ErrNoToken is returned when the request carries no bearer token.
	ErrNoToken = errors.New("no bearer token")
	// ErrInvalidToken is returned for tokens that fail verification.
	ErrInvalidToken = errors.New("invalid token")
)

/*─────────────────────────────────────────────────────────────────────────────*
| Principal                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Principal is the authenticated caller.
//
// ID is the teacher ObjectID hex for teachers, the admin email for admins,
// and the identity-provider subject for students.
type Principal struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the principal attached by Require, if any.
func CurrentUser(r *http.Request) (*Principal, bool) {
	return FromContext(r.Context())
}

// FromContext returns the principal stored in ctx.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(currentUserKey).(*Principal)
	return p, ok && p != nil
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, currentUserKey, p)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Verifier turns a raw bearer token into a principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (*Principal, error)

func (f VerifierFunc) Verify(ctx context.Context, token string) (*Principal, error) {
	return f(ctx, token)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return "", ErrNoToken
	}
	scheme, tok, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
		return "", ErrNoToken
	}
	return strings.TrimSpace(tok), nil
}

// Require authenticates the request with v and admits it only when the
// principal holds one of the allowed roles.
//
//   - missing or invalid token: 401
//   - valid token, wrong role:  403
func Require(v Verifier, logger *zap.Logger, allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := BearerToken(r)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}
			p, err := v.Verify(r.Context(), tok)
			if err != nil || p == nil {
				if logger != nil {
					logger.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				}
				writeJSON(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}
			if len(set) > 0 {
				if _, ok := set[strings.ToLower(p.Role)]; !ok {
					writeJSON(w, http.StatusForbidden, "Forbidden")
					return
				}
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
