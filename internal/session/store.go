// Package session keeps the server side of login sessions: an opaque token
// mapped to the user it belongs to, valid until a fixed expiry.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown and expired tokens alike.
var ErrNotFound = errors.New("session not found")

type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Store is implemented by the in-memory store for single instance
// deployments and by the Redis store for shared ones. Expiry is absolute:
// reads never extend a session.
type Store interface {
	Create(ctx context.Context, userID int64, username string) (Session, error)
	Get(ctx context.Context, token string) (Session, error)
	// Destroy is a no-op for unknown tokens.
	Destroy(ctx context.Context, token string) error
}

func newToken() string { return uuid.NewString() }

func newSession(userID int64, username string, now time.Time, ttl time.Duration) Session {
	return Session{
		Token:     newToken(),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
