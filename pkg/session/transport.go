package session

import (
	"net/http"
	"time"
)

// Transport moves the session token between the server and the client.
type Transport interface {
	SetToken(w http.ResponseWriter, token string, ttl time.Duration) error
	GetToken(r *http.Request) (string, error)
	ClearToken(w http.ResponseWriter) error
}

// CookieTransport carries the token in an HttpOnly cookie. Tokens are 256-bit
// random values, so the cookie itself carries no readable state.
type CookieTransport struct {
	name   string
	secure bool
}

// NewCookieTransport creates a cookie transport. Set secure=false only for
// plain-HTTP development.
func NewCookieTransport(name string, secure bool) *CookieTransport {
	if name == "" {
		name = "rentora_session"
	}
	return &CookieTransport{name: name, secure: secure}
}

func (t *CookieTransport) SetToken(w http.ResponseWriter, token string, ttl time.Duration) error {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (t *CookieTransport) GetToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(t.name)
	if err != nil || cookie.Value == "" {
		return "", ErrNoToken
	}
	return cookie.Value, nil
}

func (t *CookieTransport) ClearToken(w http.ResponseWriter) error {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
