package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/baltotest/freight-api/internal/application"
	"github.com/baltotest/freight-api/pkg/response"
	"github.com/baltotest/freight-api/pkg/validation"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeDuplicateEmail = "DUPLICATE_EMAIL"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeValidation     = "VALIDATION_ERROR"
	CodeConflict       = "CONFLICT"
	CodeUnavailable    = "SERVICE_UNAVAILABLE"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
)

// statusFor maps an application error kind to its HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, application.ErrDuplicateEmail):
		return http.StatusConflict, CodeDuplicateEmail
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeUnauthorized
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, application.ErrConflict):
		return http.StatusConflict, CodeConflict
	case errors.Is(err, application.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeUnavailable
	}
	return http.StatusInternalServerError, CodeInternal
}

// fail writes the error envelope for err. Internal errors are logged and
// their message is not echoed to the client.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status, code := statusFor(err)
	switch code {
	case CodeInternal:
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		response.Error[any](c, status, code, "internal server error", nil)
	case CodeValidation:
		response.Error[any](c, status, code, err.Error(), details(err))
	default:
		response.Error[any](c, status, code, err.Error(), nil)
	}
}

func details(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return validation.ToDetails(err)
	}
	return nil
}

// bindJSON decodes the request body into dst, answering 400 on malformed JSON.
// Field rules are enforced by the services.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, CodeValidation, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}
