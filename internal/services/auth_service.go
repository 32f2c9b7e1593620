package services

import (
	"context"
	"errors"
	"strings"

	"github.com/baharkarakas/qa-forum/internal/api/validate"
	"github.com/baharkarakas/qa-forum/internal/apperr"
	"github.com/baharkarakas/qa-forum/internal/auth"
	"github.com/baharkarakas/qa-forum/internal/metrics"
	"github.com/baharkarakas/qa-forum/internal/models"
	repo "github.com/baharkarakas/qa-forum/internal/repository"
	"github.com/baharkarakas/qa-forum/internal/session"
)

const (
	msgMissingCredentials = "Please provide username and password"
	msgInvalidCredentials = "Invalid username or password"
	msgUsernameTaken      = "Username already exists"
	msgInvalidText        = "Input contains characters that cannot be stored"

	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,nonul,min=3,max=50"`
	Password string `json:"password" validate:"required,nonul,min=8"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required,nonul"`
	Password string `json:"password" validate:"required,nonul"`
}

type AuthService struct {
	users    repo.Users
	sessions session.Store
	hasher   *auth.Hasher
}

func NewAuthService(users repo.Users, sessions session.Store, hasher *auth.Hasher) *AuthService {
	return &AuthService{users: users, sessions: sessions, hasher: hasher}
}

// Register creates the user and logs them in. Username uniqueness is left to
// the store; a duplicate insert is reported as a conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, session.Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(in); err != nil {
		return models.User{}, session.Session{}, validationError(err, msgMissingCredentials)
	}
	if len(in.Password) > maxPasswordBytes {
		return models.User{}, session.Session{}, apperr.Validation("Password must be at most 72 bytes")
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return models.User{}, session.Session{}, apperr.Internal(err)
	}
	u, err := s.users.Create(ctx, in.Username, hash)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.User{}, session.Session{}, apperr.Conflict(msgUsernameTaken)
	}
	if errors.Is(err, repo.ErrInvalidText) {
		return models.User{}, session.Session{}, apperr.Validation(msgInvalidText)
	}
	if err != nil {
		return models.User{}, session.Session{}, apperr.Internal(err)
	}
	metrics.RegistrationsTotal.Inc()

	sess, err := s.sessions.Create(ctx, u.ID, u.Username)
	if err != nil {
		return models.User{}, session.Session{}, apperr.Internal(err)
	}
	return u, sess, nil
}

// Login never reveals whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (models.User, session.Session, error) {
	if err := validate.Struct(in); err != nil {
		return models.User{}, session.Session{}, validationError(err, msgMissingCredentials)
	}

	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, repo.ErrNotFound) {
		s.hasher.VerifyDummy(ctx, in.Password)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return models.User{}, session.Session{}, apperr.Auth(msgInvalidCredentials)
	}
	if err != nil {
		return models.User{}, session.Session{}, apperr.Internal(err)
	}

	err = s.hasher.Verify(ctx, in.Password, u.PasswordHash)
	if errors.Is(err, auth.ErrMismatch) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return models.User{}, session.Session{}, apperr.Auth(msgInvalidCredentials)
	}
	if err != nil {
		return models.User{}, session.Session{}, apperr.Internal(err)
	}

	sess, err := s.sessions.Create(ctx, u.ID, u.Username)
	if err != nil {
		return models.User{}, session.Session{}, apperr.Internal(err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return u, sess, nil
}

// Logout destroys the session behind token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// Current resolves token to a live session. ok is false for missing, unknown
// and expired tokens; err is only set when the store itself fails.
func (s *AuthService) Current(ctx context.Context, token string) (sess session.Session, ok bool, err error) {
	if token == "" {
		return session.Session{}, false, nil
	}
	sess, err = s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return session.Session{}, false, nil
	}
	if err != nil {
		return session.Session{}, false, apperr.Internal(err)
	}
	return sess, true, nil
}

// validationError turns validator output into a client error. Missing fields
// get one summary message; other rule failures report the first field.
func validationError(err error, missingMsg string) error {
	var errs validate.Errs
	if !errors.As(err, &errs) {
		return apperr.Internal(err)
	}
	if errs.Has("required") {
		return apperr.Validation(missingMsg).WithDetails(errs)
	}
	return apperr.Validation(errs[0].Msg).WithDetails(errs)
}
