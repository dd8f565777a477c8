package main

import (
	"net/http"

	"socialnet/backend/internal/handler"
	"socialnet/backend/internal/logger"
	"socialnet/backend/internal/metrics"

	"github.com/gin-gonic/gin"

	_ "socialnet/backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func setupRouter(h *handler.Handler, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(logger.RequestID(), logger.AccessLog(), gin.Recovery(), m.Middleware())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", m.Handler())

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}
