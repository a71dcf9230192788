// internal/app/features/teachers/verifier.go
package teachers

import (
	"context"
	"errors"
	"fmt"

	teacherstore "github.com/dalemusser/primementor/internal/app/store/teachers"
	"github.com/dalemusser/primementor/internal/app/system/auth"
	"github.com/dalemusser/primementor/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActiveTeacher verifies a teacher token and confirms the account still
// exists, so tokens of deleted teachers stop working immediately.
type ActiveTeacher struct {
	Tokens   auth.Verifier
	Teachers *teacherstore.Store
}

func (v ActiveTeacher) Verify(ctx context.Context, token string) (*auth.Principal, error) {
	p, err := v.Tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if p.Role != auth.RoleTeacher {
		return p, nil
	}
	id, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad teacher id", auth.ErrInvalidToken)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()
	t, err := v.Teachers.GetByID(ctx, id)
	if errors.Is(err, teacherstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: teacher not found", auth.ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	p.Name, p.Email = t.Name, t.Email
	return p, nil
}
