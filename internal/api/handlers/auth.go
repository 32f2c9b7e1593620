package handlers

import (
	"context"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/baharkarakas/qa-forum/internal/api/httpx"
	"github.com/baharkarakas/qa-forum/internal/apperr"
	"github.com/baharkarakas/qa-forum/internal/auth"
	"github.com/baharkarakas/qa-forum/internal/middleware"
	"github.com/baharkarakas/qa-forum/internal/models"
	"github.com/baharkarakas/qa-forum/internal/services"
	"github.com/baharkarakas/qa-forum/internal/session"
)

type Authenticator interface {
	Register(ctx context.Context, in services.RegisterInput) (models.User, session.Session, error)
	Login(ctx context.Context, in services.LoginInput) (models.User, session.Session, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Svc    Authenticator
	Cookie *auth.SessionCookie
}

func NewAuthHandler(svc Authenticator, cookie *auth.SessionCookie) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookie: cookie}
}

type authResp struct {
	Message string            `json:"message"`
	User    models.PublicUser `json:"user"`
}

type checkAuthResp struct {
	IsAuthenticated bool               `json:"isAuthenticated"`
	User            *models.PublicUser `json:"user,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	u, sess, err := h.Svc.Register(r.Context(), req)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	if err := h.Cookie.Set(w, sess); err != nil {
		httpx.Fail(w, r, apperr.Internal(err))
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, authResp{Message: "Registration successful!", User: u.Public()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, r, err)
		return
	}
	u, sess, err := h.Svc.Login(r.Context(), req)
	if err != nil {
		httpx.Fail(w, r, err)
		return
	}
	if err := h.Cookie.Set(w, sess); err != nil {
		httpx.Fail(w, r, apperr.Internal(err))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authResp{Message: "Login successful!", User: u.Public()})
}

// Logout clears the cookie and answers 200 whatever state the session is
// in. A store failure leaves the server side entry to expire on its own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Cookie.Clear(w)
	if token, err := h.Cookie.Token(r); err == nil {
		if err := h.Svc.Logout(r.Context(), token); err != nil {
			slog.WarnContext(r.Context(), "logout: destroy session",
				"request_id", chimw.GetReqID(r.Context()),
				"err", err,
			)
		}
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Message{Message: "Logged out successfully"})
}

func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.FromCtx(r.Context())
	if !ok {
		httpx.WriteJSON(w, http.StatusOK, checkAuthResp{IsAuthenticated: false})
		return
	}
	pu := u.Public()
	httpx.WriteJSON(w, http.StatusOK, checkAuthResp{IsAuthenticated: true, User: &pu})
}
