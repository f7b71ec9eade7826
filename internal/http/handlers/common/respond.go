package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/buildhub/homeowner-gateway/internal/logger"
	"github.com/buildhub/homeowner-gateway/internal/payment"
	"github.com/buildhub/homeowner-gateway/internal/service"
	"github.com/buildhub/homeowner-gateway/internal/storage"
	"github.com/buildhub/homeowner-gateway/internal/upstream"
	"github.com/buildhub/homeowner-gateway/internal/wizard"
)

// OK writes the standard success envelope, merging extra fields in.
func OK(c *gin.Context, extra gin.H) {
	body := gin.H{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes the standard failure envelope.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// Error maps a service error to a response. Upstream messages pass through
// verbatim; anything unrecognized is masked.
func Error(c *gin.Context, err error) {
	var upErr *upstream.Error
	switch {
	case errors.Is(err, service.ErrNotFound):
		Fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, service.ErrActionNotAllowed):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEstimateLocked):
		Fail(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, payment.ErrPaymentInFlight):
		Fail(c, http.StatusConflict, err.Error())
	case errors.Is(err, wizard.ErrValidation):
		Fail(c, http.StatusUnprocessableEntity, "Please fix the highlighted fields before continuing")
	case errors.Is(err, storage.ErrFileTooLarge), errors.Is(err, storage.ErrUnsupportedType):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &upErr):
		Fail(c, upstreamStatus(upErr), upstreamMessage(upErr))
	default:
		logger.Log.WithError(err).Error("unhandled request error")
		Fail(c, http.StatusInternalServerError, "Something went wrong")
	}
}

func upstreamStatus(err *upstream.Error) int {
	switch err.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return err.StatusCode
	case 0:
		return http.StatusBadGateway
	default:
		if err.StatusCode >= 500 {
			return http.StatusBadGateway
		}
		return err.StatusCode
	}
}

// upstreamMessage keeps the backend's wording but never leaks transport
// internals.
func upstreamMessage(err *upstream.Error) string {
	if err.Message == "" {
		return "The marketplace backend is unavailable"
	}
	lowered := strings.ToLower(err.Message)
	for _, needle := range []string{"dial tcp", "connection refused", "no such host", "timeout", "eof"} {
		if strings.Contains(lowered, needle) {
			return "The marketplace backend is unavailable"
		}
	}
	return err.Message
}
