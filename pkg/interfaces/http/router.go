package httpapi

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New wires the Gin engine with routes and middlewares. An empty apiToken disables authentication.
func New(handler *PlanHandler, apiToken string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", handler.Health)

	api := r.Group("/api/v1")
	if apiToken != "" {
		api.Use(bearerTokenMiddleware(apiToken))
	}
	api.GET("/production-plan", handler.GetProductionPlan)

	if logger != nil {
		logger.Info("router initialized", zap.Bool("auth_enabled", apiToken != ""))
	}

	return r
}
