package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

//goland:noinspection GoExportedFuncWithUnexportedType
func NewHandler(database pinger) Handler {
	return Handler{database: database}
}

type Handler struct {
	database pinger
}

// Status swagger:model
type Status struct {
	Status string `json:"status"`
}

// Health reports whether the service can reach its database
func (h Handler) Health(c *gin.Context) {
	// swagger:route GET /health health
	//
	// Service health
	//
	// Show service health
	//
	// responses:
	//   200: Status
	//   503: Status
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.database.PingContext(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, Status{Status: "down"})
		return
	}

	c.JSON(http.StatusOK, Status{Status: "up"})
}
