package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/api/session"
	"github.com/feedbackhub/portal/internal/core/domain"
)

// claimsFrom returns the verified claims stored by RequireSession. A route
// wired without the middleware fails closed with 401.
func claimsFrom(c echo.Context) (domain.TrustedClaims, error) {
	claims, ok := session.FromContext(c.Request().Context())
	if !ok {
		return domain.TrustedClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
