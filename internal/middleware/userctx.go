package middleware

import (
	"context"

	"github.com/baharkarakas/qa-forum/internal/models"
)

type userKey struct{}

// UserCtx is the logged in user attached to a request.
type UserCtx struct {
	UserID   int64
	Username string
	Token    string
}

func (u UserCtx) Public() models.PublicUser {
	return models.PublicUser{ID: u.UserID, Username: u.Username}
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	u, ok := ctx.Value(userKey{}).(UserCtx)
	return u, ok
}
