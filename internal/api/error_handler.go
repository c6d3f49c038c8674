package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// errorEnvelope is the canonical error body on all 4xx/5xx responses.
type errorEnvelope struct {
	Message   string            `json:"message"`
	Status    int               `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to deterministic HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the uniform envelope {message, status, timestamp, details}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, details := resolveError(err, log, c)
		_ = c.JSON(code, errorEnvelope{
			Message:   msg,
			Status:    code,
			Timestamp: time.Now().UTC(),
			Details:   details,
		})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, map[string]string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), nil
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required",
			map[string]string{"suggestion": "provide a valid bearer token"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", nil
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", nil
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "email already registered", nil
	case errors.Is(err, domain.ErrReviewExists):
		return http.StatusConflict, "order already reviewed", nil
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", nil
	case errors.Is(err, domain.ErrRestaurantNotFound):
		return http.StatusNotFound, "restaurant not found", nil
	case errors.Is(err, domain.ErrMenuItemNotFound):
		return http.StatusNotFound, "menu item not found", nil
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order not found", nil
	case errors.Is(err, domain.ErrCartNotFound):
		return http.StatusNotFound, "cart not found", nil
	case errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound, "review not found", nil
	case errors.Is(err, domain.ErrOTPNotFound):
		return http.StatusNotFound, "no pending reset code", nil
	case errors.Is(err, domain.ErrMenuItemUnavailable):
		return http.StatusUnprocessableEntity, "menu item unavailable", nil
	case errors.Is(err, domain.ErrCartEmpty):
		return http.StatusUnprocessableEntity, "cart is empty", nil
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error(), nil
	case errors.Is(err, domain.ErrOrderNotReviewable):
		return http.StatusUnprocessableEntity, "only completed orders can be reviewed", nil
	case errors.Is(err, domain.ErrInvalidRating):
		return http.StatusBadRequest, "rating must be between 1 and 5", nil
	case errors.Is(err, domain.ErrOTPInvalid):
		return http.StatusBadRequest, "invalid reset code", nil
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusBadRequest, "reset code expired",
			map[string]string{"suggestion": "request a new code"}
	case errors.Is(err, domain.ErrOTPAttemptsExceeded):
		return http.StatusTooManyRequests, "too many failed attempts",
			map[string]string{"suggestion": "request a new code"}
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, "too many reset requests",
			map[string]string{"suggestion": "wait before retrying"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", nil
}
