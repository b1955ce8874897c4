package middleware

import (
	"errors"
	"net/http"

	"zenmindful/internal/domain"

	"github.com/gin-gonic/gin"
)

// ErrorStatus maps a domain error to its HTTP status.
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCode):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrInvalidChallenge), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotEnrolled), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrIdentifierTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, domain.ErrContentUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrUnauthenticated, "UNAUTHENTICATED"},
	{domain.ErrInvalidCode, "INVALID_CODE"},
	{domain.ErrInvalidChallenge, "INVALID_CHALLENGE"},
	{domain.ErrInvalidInput, "INVALID_INPUT"},
	{domain.ErrNotEnrolled, "NOT_ENROLLED"},
	{domain.ErrUserNotFound, "USER_NOT_FOUND"},
	{domain.ErrIdentifierTaken, "IDENTIFIER_TAKEN"},
	{domain.ErrStorageUnavailable, "STORAGE_UNAVAILABLE"},
	{domain.ErrContentUnavailable, "CONTENT_GENERATION_UNAVAILABLE"},
}

// ErrorCode is the stable machine-readable name of a domain error.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "INTERNAL"
}

// AbortWithError writes {"error", "code"} and stops the chain. Internal
// failures are not echoed to the client.
func AbortWithError(c *gin.Context, err error) {
	status := ErrorStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": ErrorCode(err)})
}
