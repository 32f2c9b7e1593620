package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/qa-forum/internal/api/httpx"
	"github.com/baharkarakas/qa-forum/internal/auth"
	"github.com/baharkarakas/qa-forum/internal/session"
)

type fakeResolver struct {
	sessions map[string]session.Session
	err      error
}

func (f fakeResolver) Current(_ context.Context, token string) (session.Session, bool, error) {
	if f.err != nil {
		return session.Session{}, false, f.err
	}
	s, ok := f.sessions[token]
	return s, ok, nil
}

func whoami(w http.ResponseWriter, r *http.Request) {
	u, ok := FromCtx(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(u.Username))
}

func cookieFor(t *testing.T, c *auth.SessionCookie, s session.Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, c.Set(rec, s))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSessionMiddleware_Load(t *testing.T) {
	now := time.Now()
	sess := session.Session{Token: "tok-1", UserID: 4, Username: "alice", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	cookie := auth.NewSessionCookie("sid", "secret", false)
	m := NewSessionMiddleware(fakeResolver{sessions: map[string]session.Session{"tok-1": sess}}, cookie)
	h := m.Load(http.HandlerFunc(whoami))

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFor(t, cookie, sess))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "alice", rec.Body.String())
	})

	t.Run("no cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("unknown session", func(t *testing.T) {
		other := sess
		other.Token = "tok-2"
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFor(t, cookie, other))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("forged cookie", func(t *testing.T) {
		forger := auth.NewSessionCookie("sid", "other-secret", false)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFor(t, forger, sess))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("store down", func(t *testing.T) {
		broken := NewSessionMiddleware(fakeResolver{err: errors.New("redis: connection refused")}, cookie)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFor(t, cookie, sess))
		rec := httptest.NewRecorder()
		broken.Load(http.HandlerFunc(whoami)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRequireUser(t *testing.T) {
	h := RequireUser("Please login to post a question")(http.HandlerFunc(whoami))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body httpx.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Please login to post a question", body.Message)
	assert.Equal(t, "auth_error", body.Code)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithUser(req.Context(), UserCtx{UserID: 1, Username: "bob"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", rec.Body.String())
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"internal_error"`)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	l := NewIPRateLimiter(2)
	l.now = func() time.Time { return now }
	l.pruned = now
	h := l.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	hit := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1111"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1:3333"))
	// other clients have their own bucket
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2:1111"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1:1111"))

	now = now.Add(idleAfter + time.Minute)
	hit("10.0.0.3:1111")
	assert.Equal(t, 1, l.Len())
}

func TestRateLimit_Disabled(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {})
	h := RateLimit(0)(next)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestHTTPMetricsAndLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logging(logger), HTTPMetrics)
	r.Get("/api/questions/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/questions/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
	assert.Equal(t, "/api/questions/42", line["path"])
}
