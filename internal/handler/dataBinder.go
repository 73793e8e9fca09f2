package handler

import (
	"errors"

	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// DataBinder binds the JSON request body to req and validates it. Bodies failing validation result
// in an errdef.Invalid error wrapping the validator.ValidationErrors, bodies which cannot be decoded
// in an errdef.Malformed error.
func DataBinder(c *gin.Context, req any) error {
	if c.ContentType() != gin.MIMEJSON {
		return errdef.NewUnsupportedMediaType("%s only accepts content of type %s", c.FullPath(), gin.MIMEJSON)
	}

	if err := c.ShouldBindJSON(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return errdef.NewInvalid("request validation failed: %w", validationErrors)
		}
		return errdef.NewMalformed("error binding data: %w", err)
	}

	return nil
}

// QueryBinder binds the query parameters to req and validates them. Parameters failing validation
// result in an errdef.ConstraintViolation error wrapping the validator.ValidationErrors.
func QueryBinder(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return errdef.NewConstraintViolation("request validation failed: %w", validationErrors)
		}
		return errdef.NewBadRequest("error binding query: %v", err)
	}

	return nil
}
