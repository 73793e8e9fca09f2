package server

import (
	"log/slog"

	"github.com/dhis2-sre/im-calendar/internal/middleware"
	"github.com/dhis2-sre/im-calendar/pkg/event"
	"github.com/dhis2-sre/im-calendar/pkg/health"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redocMiddleware "github.com/go-openapi/runtime/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GetEngine creates the engine serving every route of the service under basePath.
func GetEngine(logger *slog.Logger, serviceName string, basePath string, allowedOrigins []string, eventHandler event.Handler, healthHandler health.Handler) *gin.Engine {
	r := NewEngine(logger, serviceName, allowedOrigins)

	router := r.Group(basePath)

	redoc(router, basePath)

	router.GET("/health", healthHandler.Health)

	event.Routes(router, eventHandler)

	return r
}

// NewEngine creates an engine with every middleware but without any routes. Errors added to the
// context by handlers are rendered by [middleware.ErrorHandler].
func NewEngine(logger *slog.Logger, serviceName string, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AddExposeHeaders(middleware.CorrelationIDHeader)
	r.Use(cors.New(corsConfig))

	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())

	return r
}

func redoc(router *gin.RouterGroup, basePath string) {
	router.StaticFile("/swagger.yaml", "./swagger/swagger.yaml")

	redocOpts := redocMiddleware.RedocOpts{
		BasePath: basePath,
		SpecURL:  "./swagger.yaml",
	}
	router.GET("/docs", func(c *gin.Context) {
		redocHandler := redocMiddleware.Redoc(redocOpts, nil)
		redocHandler.ServeHTTP(c.Writer, c.Request)
	})
}
