package event

import (
	"github.com/gin-gonic/gin"
)

func Routes(r gin.IRouter, handler Handler) {
	router := r.Group("/events")
	router.POST("", handler.Create)
	router.GET("/previews/month", handler.FindPreviewsForMonth)
	router.GET("/:id", handler.Find)
	router.PUT("/:id", handler.Update)
	router.DELETE("/:id", handler.Delete)
}
