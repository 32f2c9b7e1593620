package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baharkarakas/qa-forum/internal/apperr"
	"github.com/baharkarakas/qa-forum/internal/auth"
	"github.com/baharkarakas/qa-forum/internal/models"
	repo "github.com/baharkarakas/qa-forum/internal/repository"
	"github.com/baharkarakas/qa-forum/internal/session"
)

func newAuthService(users *MockUsers) (*AuthService, *session.MemoryStore) {
	store := session.NewMemoryStore(time.Hour)
	return NewAuthService(users, store, auth.NewHasher(bcrypt.MinCost, nil)), store
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	svc, store := newAuthService(users)

	users.On("Create", ctx, "alice", mock.MatchedBy(func(h string) bool {
		return bcrypt.CompareHashAndPassword([]byte(h), []byte("password123")) == nil
	})).Return(models.User{ID: 7, Username: "alice"}, nil)

	u, sess, err := svc.Register(ctx, RegisterInput{Username: "  alice ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, int64(7), sess.UserID)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, 1, store.Len())
	users.AssertExpectations(t)
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
		msg  string
	}{
		{"missing username", RegisterInput{Password: "password123"}, msgMissingCredentials},
		{"missing password", RegisterInput{Username: "alice"}, msgMissingCredentials},
		{"blank username", RegisterInput{Username: "   ", Password: "password123"}, msgMissingCredentials},
		{"short password", RegisterInput{Username: "alice", Password: "short"}, "Password must be at least 8 characters"},
		{"short username", RegisterInput{Username: "al", Password: "password123"}, "Username must be at least 3 characters"},
		{"long password", RegisterInput{Username: "alice", Password: strings.Repeat("x", 73)}, "Password must be at most 72 bytes"},
		{"nul in username", RegisterInput{Username: "ali\x00ce", Password: "password123"}, "Username must not contain NUL characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUsers)
			svc, store := newAuthService(users)

			_, _, err := svc.Register(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.Equal(t, tt.msg, apperr.As(err).Message)
			assert.Equal(t, 0, store.Len())
			users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	svc, store := newAuthService(users)

	users.On("Create", ctx, "alice", mock.Anything).
		Return(models.User{}, errors.Join(repo.ErrDuplicate, errors.New("23505")))

	_, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password123"})
	require.Error(t, err)
	e := apperr.As(err)
	assert.Equal(t, apperr.KindConflict, e.Kind)
	assert.Equal(t, 400, e.Status())
	assert.Equal(t, msgUsernameTaken, e.Message)
	assert.Equal(t, 0, store.Len())
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	svc, _ := newAuthService(users)

	users.On("GetByUsername", ctx, "alice").
		Return(models.User{ID: 3, Username: "alice", PasswordHash: hashOf(t, "password123")}, nil)

	u, sess, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.NotEmpty(t, sess.Token)

	got, ok, err := svc.Current(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", got.Username)
}

func TestAuthService_Login_FailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	svc, store := newAuthService(users)

	users.On("GetByUsername", ctx, "alice").
		Return(models.User{ID: 3, Username: "alice", PasswordHash: hashOf(t, "password123")}, nil)
	users.On("GetByUsername", ctx, "nobody").
		Return(models.User{}, repo.ErrNotFound)

	_, _, wrongPass := svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong-password"})
	_, _, unknown := svc.Login(ctx, LoginInput{Username: "nobody", Password: "password123"})

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, apperr.As(wrongPass).Message, apperr.As(unknown).Message)
	assert.Equal(t, msgInvalidCredentials, apperr.As(unknown).Message)
	assert.Equal(t, 401, apperr.As(unknown).Status())
	assert.Equal(t, 0, store.Len())
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	users := new(MockUsers)
	svc, _ := newAuthService(users)

	_, _, err := svc.Login(context.Background(), LoginInput{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, msgMissingCredentials, apperr.As(err).Message)
	assert.Equal(t, 400, apperr.As(err).Status())
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	svc, store := newAuthService(users)

	sess, err := store.Create(ctx, 1, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, ok, err := svc.Current(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	// logging out twice or without a session is fine
	assert.NoError(t, svc.Logout(ctx, sess.Token))
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestAuthService_Current_NoToken(t *testing.T) {
	svc, _ := newAuthService(new(MockUsers))

	_, ok, err := svc.Current(context.Background(), "")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Current(context.Background(), "unknown")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthService_Register_RejectedText(t *testing.T) {
	ctx := context.Background()
	users := new(MockUsers)
	svc, _ := newAuthService(users)
	users.On("Create", ctx, "alice", mock.Anything).
		Return(models.User{}, errors.Join(repo.ErrInvalidText, errors.New("22001")))

	_, _, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password123"})
	assert.Equal(t, apperr.KindValidation, apperr.As(err).Kind)
	assert.Equal(t, msgInvalidText, apperr.As(err).Message)
}
