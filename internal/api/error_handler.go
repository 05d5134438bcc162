package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homecare/nursing-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the domain error taxonomy to HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, router 404/405, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusForbidden, domain.ErrInvalidTransition.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrServiceRequestNotFound):
		return http.StatusNotFound, "service request not found"
	case errors.Is(err, domain.ErrIdentityNotFound):
		return http.StatusNotFound, "identity not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, leaf(err, domain.ErrConflict)
	case errors.Is(err, domain.ErrInvalid):
		return http.StatusBadRequest, leaf(err, domain.ErrInvalid)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// leaf returns the most specific known message for err, trimming any
// operation prefixes added while the error travelled up the stack.
func leaf(err error, sentinel error) string {
	for _, known := range []error{
		domain.ErrNotPending,
		domain.ErrPaymentCollected,
		domain.ErrIdempotencyInUse,
		domain.ErrIdentityExists,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if errors.Is(err, domain.ErrInvalid) {
		// validation errors are built as "invalid request: <detail>" at the source
		msg := err.Error()
		if i := strings.Index(msg, domain.ErrInvalid.Error()); i >= 0 {
			return msg[i:]
		}
	}
	return sentinel.Error()
}
