package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/neuroscan/clinic-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// StatusForCode maps an application error code onto an HTTP status.
func StatusForCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrValidation:
		return http.StatusBadRequest
	case errors.ErrDuplicateEmail:
		return http.StatusConflict
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrUnauthenticated:
		return http.StatusUnauthorized
	case errors.ErrForbidden:
		return http.StatusForbidden
	case errors.ErrSlotUnavailable, errors.ErrInvalidTransition, errors.ErrConflict:
		return http.StatusConflict
	case errors.ErrStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	var status int
	var apiErr *Error

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		status = StatusForCode(appErr.Code)
		apiErr = &Error{
			Code:    int(appErr.Code),
			Message: appErr.Message,
			Field:   appErr.Field,
		}
	} else {
		status = http.StatusInternalServerError
		apiErr = &Error{
			Code:    int(errors.ErrInternal),
			Message: "internal server error",
		}
	}

	c.JSON(status, Response{
		Success: false,
		Error:   apiErr,
	})
}
