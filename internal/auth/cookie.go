package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/baharkarakas/qa-forum/internal/session"
)

var ErrInvalidCookie = errors.New("invalid session cookie")

type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionCookie carries a session token to the browser inside an HS256
// signed value, so forged or tampered cookies are rejected without a store
// lookup.
type SessionCookie struct {
	Name      string
	CrossSite bool
	secret    []byte
}

func NewSessionCookie(name, secret string, crossSite bool) *SessionCookie {
	return &SessionCookie{Name: name, CrossSite: crossSite, secret: []byte(secret)}
}

func (c *SessionCookie) sign(s session.Session) (string, error) {
	claims := cookieClaims{
		SID: s.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *SessionCookie) parse(value string) (string, error) {
	claims := &cookieClaims{}
	_, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || claims.SID == "" {
		return "", ErrInvalidCookie
	}
	return claims.SID, nil
}

// Set writes the cookie for s.
func (c *SessionCookie) Set(w http.ResponseWriter, s session.Session) error {
	v, err := c.sign(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, c.cookie(v, s.ExpiresAt, 0))
	return nil
}

// Clear tells the browser to drop the cookie.
func (c *SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie("", time.Unix(0, 0), -1))
}

// Token returns the session token carried by r, or ErrInvalidCookie.
func (c *SessionCookie) Token(r *http.Request) (string, error) {
	ck, err := r.Cookie(c.Name)
	if err != nil || ck.Value == "" {
		return "", ErrInvalidCookie
	}
	return c.parse(ck.Value)
}

func (c *SessionCookie) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	ck := &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if c.CrossSite {
		ck.Secure = true
		ck.SameSite = http.SameSiteNoneMode
	}
	return ck
}
