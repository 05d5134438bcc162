package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homecare/nursing-api/internal/api/middleware"
	"github.com/homecare/nursing-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// fails fast with 401 when the middleware did not run.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok || !p.Role.Valid() {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
