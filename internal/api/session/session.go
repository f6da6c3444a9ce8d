// Package session carries the verified identity of a request and owns the
// cookie pair that mirrors it for page navigation.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
)

const (
	TokenCookie = "token"
	RoleCookie  = "user-role"
)

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying verified claims.
func WithClaims(ctx context.Context, claims domain.TrustedClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// FromContext returns the verified claims stored by WithClaims. ok is false
// when none were stored or the stored claims carry no user.
func FromContext(ctx context.Context) (domain.TrustedClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(domain.TrustedClaims)
	if !ok || claims.UserID == "" {
		return domain.TrustedClaims{}, false
	}
	return claims, true
}

// Cookies issues and clears the token and user-role cookies.
type Cookies struct {
	Secure bool
}

func NewCookies(production bool) *Cookies {
	return &Cookies{Secure: production}
}

// Issue sets both cookies to expire with the token.
func (p *Cookies) Issue(c echo.Context, token, role string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 1
	}
	c.SetCookie(p.cookie(TokenCookie, token, maxAge, expiresAt))
	c.SetCookie(p.cookie(RoleCookie, role, maxAge, expiresAt))
}

// Clear expires both cookies.
func (p *Cookies) Clear(c echo.Context) {
	ClearResponse(c.Response(), p.Secure)
}

// ClearResponse expires both cookies on a raw response writer.
func ClearResponse(w http.ResponseWriter, secure bool) {
	p := Cookies{Secure: secure}
	http.SetCookie(w, p.cookie(TokenCookie, "", -1, time.Unix(0, 0)))
	http.SetCookie(w, p.cookie(RoleCookie, "", -1, time.Unix(0, 0)))
}

func (p *Cookies) cookie(name, value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}
