package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/api/session"
	"github.com/feedbackhub/portal/internal/core/domain"
	"github.com/feedbackhub/portal/internal/infrastructure/metrics"
)

const (
	AdminHome = "/admin"
	UserHome  = "/dashboard"
	LoginPage = "/login"
)

// gateBypass lists path prefixes the gate never inspects.
var gateBypass = []string{"/static", "/uploads", "/favicon.ico", "/api", "/health", "/metrics", "/swagger"}

var publicPages = map[string]struct{}{
	"/":       {},
	"/login":  {},
	"/signup": {},
}

// Decision is the outcome of evaluating a navigation request.
type Decision struct {
	Allow        bool
	Location     string // redirect target when Allow is false
	ClearCookies bool
	Reason       string // metric label for redirects
}

func allow() Decision { return Decision{Allow: true} }

func redirect(location, reason string) Decision {
	return Decision{Location: location, Reason: reason}
}

// Evaluate decides what the gate does with a request for path carrying the
// raw user-role cookie value. The cookie is an unverified routing hint: it
// picks a redirect target and nothing else.
func Evaluate(path, rawMarker string) Decision {
	if bypassed(path) {
		return allow()
	}

	hint, err := domain.ParseRoutingHint(rawMarker)

	if _, public := publicPages[path]; public {
		switch {
		case err != nil:
			d := allow()
			d.ClearCookies = true
			return d
		case hint.Present():
			return redirect(homeFor(hint.Role()), "public_with_marker")
		default:
			return allow()
		}
	}

	if err != nil {
		d := redirect(LoginPage, "reset")
		d.ClearCookies = true
		return d
	}
	if !hint.Present() {
		return redirect(LoginPage+"?redirect="+url.QueryEscape(path), "login_required")
	}

	switch {
	case inArea(path, AdminHome) && hint.Role() != domain.RoleAdmin:
		return redirect(UserHome, "wrong_area")
	case inArea(path, UserHome) && hint.Role() != domain.RoleUser:
		return redirect(AdminHome, "wrong_area")
	}
	return allow()
}

// Gate applies Evaluate to every request it wraps. A panic while deciding
// clears the session cookies and sends the browser to the login page.
func Gate(secureCookies bool, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d, ok := safeEvaluate(c, log)
			if !ok {
				d = Decision{Location: LoginPage, ClearCookies: true, Reason: "reset"}
			}

			if d.ClearCookies {
				session.ClearResponse(c.Response(), secureCookies)
			}
			if d.Allow {
				return next(c)
			}

			metrics.GateRedirectsTotal.WithLabelValues(d.Reason).Inc()
			return c.Redirect(http.StatusFound, d.Location)
		}
	}
}

func safeEvaluate(c echo.Context, log zerolog.Logger) (d Decision, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("path", c.Request().URL.Path).Msg("gate evaluation failed")
			ok = false
		}
	}()

	var marker string
	if ck, err := c.Cookie(session.RoleCookie); err == nil {
		marker = ck.Value
	}
	return Evaluate(c.Request().URL.Path, marker), true
}

func homeFor(role string) string {
	if role == domain.RoleAdmin {
		return AdminHome
	}
	return UserHome
}

func bypassed(path string) bool {
	for _, prefix := range gateBypass {
		if inArea(path, prefix) {
			return true
		}
	}
	return false
}

// inArea reports whether path is area itself or lies beneath it.
func inArea(path, area string) bool {
	return path == area || strings.HasPrefix(path, area+"/")
}
