package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/dhis2-sre/im-calendar/internal/handler"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every error response.
// swagger:model
type ErrorResponse struct {
	Timestamp   time.Time    `json:"timestamp"`
	Status      int          `json:"status"`
	Error       string       `json:"error"`
	Message     string       `json:"message"`
	Path        string       `json:"path"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

// FieldError describes a single rule violated by a request.
type FieldError struct {
	Field         string `json:"field"`
	RejectedValue any    `json:"rejectedValue"`
	Message       string `json:"message"`
}

// ErrorHandler renders the last error added to the context. Errors of unknown kind are rendered as
// internal server errors without exposing their details.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil || c.Writer.Written() {
			return
		}

		response := newErrorResponse(err.Err)
		response.Timestamp = time.Now().UTC()
		response.Path = c.Request.URL.Path
		c.JSON(response.Status, response)
	}
}

func newErrorResponse(err error) ErrorResponse {
	switch {
	case errdef.IsInvalid(err):
		return ErrorResponse{
			Status:      http.StatusBadRequest,
			Error:       "Validation Failed",
			Message:     "Request validation failed",
			FieldErrors: fieldErrors(err),
		}
	case errdef.IsConstraintViolation(err):
		return ErrorResponse{
			Status:      http.StatusBadRequest,
			Error:       "Constraint Violation",
			Message:     "Request validation failed",
			FieldErrors: fieldErrors(err),
		}
	case errdef.IsMalformed(err):
		return ErrorResponse{
			Status:  http.StatusBadRequest,
			Error:   "Bad Request",
			Message: "Invalid JSON format",
		}
	case errdef.IsBadRequest(err):
		return ErrorResponse{
			Status:  http.StatusBadRequest,
			Error:   "Bad Request",
			Message: err.Error(),
		}
	case errdef.IsUnsupportedMediaType(err):
		return ErrorResponse{
			Status:  http.StatusUnsupportedMediaType,
			Error:   "Unsupported Media Type",
			Message: err.Error(),
		}
	case errdef.IsNotFound(err):
		return ErrorResponse{
			Status:  http.StatusNotFound,
			Error:   "Not Found",
			Message: err.Error(),
		}
	default:
		return ErrorResponse{
			Status:  http.StatusInternalServerError,
			Error:   "Unknown Error",
			Message: "An unexpected error occurred",
		}
	}
}

func fieldErrors(err error) []FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	result := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		result = append(result, FieldError{
			Field:         handler.Field(fe),
			RejectedValue: fe.Value(),
			Message:       handler.Message(fe),
		})
	}
	return result
}
