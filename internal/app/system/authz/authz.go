// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/primementor/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the caller's lowercased role, id, and a found flag.
// Without a principal it returns "visitor", "", false.
func UserCtx(r *http.Request) (role string, id string, ok bool) {
	p, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", false
	}
	return strings.ToLower(p.Role), p.ID, true
}

// TeacherID returns the caller's teacher ObjectID. ok is false for
// non-teachers and malformed ids, so callers fail closed.
func TeacherID(r *http.Request) (primitive.ObjectID, bool) {
	role, id, ok := UserCtx(r)
	if !ok || role != auth.RoleTeacher {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// StudentSubject returns the identity-provider subject of a student caller.
func StudentSubject(r *http.Request) (string, bool) {
	role, id, ok := UserCtx(r)
	if !ok || role != auth.RoleStudent || id == "" {
		return "", false
	}
	return id, true
}
