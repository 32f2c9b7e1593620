package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/qa-forum/internal/session"
)

func testSession(ttl time.Duration) session.Session {
	now := time.Now()
	return session.Session{Token: "tok-123", UserID: 1, Username: "alice", CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func roundTrip(t *testing.T, c *SessionCookie, s session.Session) (*http.Cookie, *http.Request) {
	t.Helper()
	w := httptest.NewRecorder()
	require.NoError(t, c.Set(w, s))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	return cookies[0], r
}

func TestSessionCookie_RoundTrip(t *testing.T) {
	c := NewSessionCookie("forum.sid", "secret", false)
	ck, r := roundTrip(t, c, testSession(time.Hour))

	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, "/", ck.Path)

	tok, err := c.Token(r)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)
}

func TestSessionCookie_CrossSite(t *testing.T) {
	c := NewSessionCookie("forum.sid", "secret", true)
	ck, _ := roundTrip(t, c, testSession(time.Hour))

	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
}

func TestSessionCookie_WrongSecret(t *testing.T) {
	_, r := roundTrip(t, NewSessionCookie("forum.sid", "secret", false), testSession(time.Hour))

	_, err := NewSessionCookie("forum.sid", "other", false).Token(r)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestSessionCookie_Expired(t *testing.T) {
	c := NewSessionCookie("forum.sid", "secret", false)
	s := testSession(time.Hour)
	s.CreatedAt = s.CreatedAt.Add(-2 * time.Hour)
	s.ExpiresAt = s.ExpiresAt.Add(-2 * time.Hour)
	v, err := c.sign(s)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "forum.sid", Value: v})
	_, err = c.Token(r)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestSessionCookie_RejectsNoneAlg(t *testing.T) {
	c := NewSessionCookie("forum.sid", "secret", false)
	claims := cookieClaims{SID: "tok", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	v, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "forum.sid", Value: v})
	_, err = c.Token(r)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestSessionCookie_MissingAndClear(t *testing.T) {
	c := NewSessionCookie("forum.sid", "secret", false)
	_, err := c.Token(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrInvalidCookie)

	w := httptest.NewRecorder()
	c.Clear(w)
	ck := w.Result().Cookies()
	require.Len(t, ck, 1)
	assert.Equal(t, -1, ck[0].MaxAge)
	assert.Empty(t, ck[0].Value)
}
