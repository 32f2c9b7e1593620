package middleware

import (
	"context"
	"net/http"

	"github.com/baharkarakas/qa-forum/internal/api/httpx"
	"github.com/baharkarakas/qa-forum/internal/apperr"
	"github.com/baharkarakas/qa-forum/internal/auth"
	"github.com/baharkarakas/qa-forum/internal/session"
)

// SessionResolver looks up the session behind a token. ok is false for
// unknown or expired tokens.
type SessionResolver interface {
	Current(ctx context.Context, token string) (sess session.Session, ok bool, err error)
}

type SessionMiddleware struct {
	Sessions SessionResolver
	Cookie   *auth.SessionCookie
}

func NewSessionMiddleware(s SessionResolver, c *auth.SessionCookie) *SessionMiddleware {
	return &SessionMiddleware{Sessions: s, Cookie: c}
}

// Load attaches the session user to the request when the cookie is valid.
// Requests without one pass through anonymously; only a failing store stops
// the request.
func (m *SessionMiddleware) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := m.Cookie.Token(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		sess, ok, err := m.Sessions.Current(r.Context(), token)
		if err != nil {
			httpx.Fail(w, r, err)
			return
		}
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{UserID: sess.UserID, Username: sess.Username, Token: sess.Token})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests with a 401 carrying msg. It must run
// after Load and before anything reads the body.
func RequireUser(msg string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := FromCtx(r.Context()); !ok {
				httpx.Fail(w, r, apperr.Auth(msg))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
