package handler

import (
	"github.com/dhis2-sre/im-calendar/internal/errdef"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUUIDPathParameter parses the path parameter as a UUID. The error is added to the context if it
// cannot be parsed.
func GetUUIDPathParameter(c *gin.Context, parameter string) (uuid.UUID, bool) {
	idParam := c.Param(parameter)
	id, err := uuid.Parse(idParam)
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error parsing %q: %v", parameter, err))
		return uuid.Nil, false
	}
	return id, true
}
