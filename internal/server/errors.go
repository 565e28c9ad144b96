package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	accountdomain "github.com/revops-labs/pulse/internal/account/domain"
)

var (
	ErrNotFound           = &apiError{status: http.StatusNotFound, code: "not_found", message: "resource not found"}
	ErrServiceUnavailable = &apiError{status: http.StatusServiceUnavailable, code: "service_unavailable", message: "service unavailable"}
	ErrTooManyRequests    = &apiError{status: http.StatusTooManyRequests, code: "rate_limited", message: "too many requests"}
)

type apiError struct {
	status  int
	code    string
	message string
	field   string
}

func (e *apiError) Error() string { return e.message }

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		status:  http.StatusBadRequest,
		code:    code,
		message: message,
		field:   field,
	}
}

func invalidRequestError() *apiError {
	return &apiError{
		status:  http.StatusBadRequest,
		code:    "invalid_request",
		message: "invalid request body",
	}
}

// AbortWithError renders a JSON error response. Domain errors map onto
// their HTTP status; anything unrecognized is a 500 with a generic body so
// internals never leak to the client.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		abortJSON(c, apiErr)
		return
	}

	switch {
	case errors.Is(err, accountdomain.ErrNotFound):
		abortJSON(c, ErrNotFound)
	case errors.Is(err, accountdomain.ErrInvalidID):
		abortJSON(c, newValidationError("id", "invalid_id", "invalid account id"))
	case isAccountValidationError(err):
		abortJSON(c, newValidationError("", "invalid_account", err.Error()))
	default:
		_ = c.Error(err)
		abortJSON(c, &apiError{
			status:  http.StatusInternalServerError,
			code:    "internal_error",
			message: "internal server error",
		})
	}
}

func abortJSON(c *gin.Context, apiErr *apiError) {
	body := gin.H{
		"code":    apiErr.code,
		"message": apiErr.message,
	}
	if apiErr.field != "" {
		body["field"] = apiErr.field
	}
	c.AbortWithStatusJSON(apiErr.status, gin.H{"error": body})
}

func isAccountValidationError(err error) bool {
	switch {
	case errors.Is(err, accountdomain.ErrInvalidName),
		errors.Is(err, accountdomain.ErrInvalidTier),
		errors.Is(err, accountdomain.ErrInvalidARR),
		errors.Is(err, accountdomain.ErrInvalidHealth),
		errors.Is(err, accountdomain.ErrInvalidRenewal),
		errors.Is(err, accountdomain.ErrInvalidLastTouch):
		return true
	default:
		return false
	}
}
