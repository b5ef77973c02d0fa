package server

import (
	"github.com/gin-gonic/gin"
)

// NewRouter builds the Gin engine with all routes registered.
func NewRouter(h *Handler, env string) *gin.Engine {
	if env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(corsMiddleware())

	router.GET("/health", h.Health)
	router.POST("/query", h.Query)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/query", h.Query)
		apiV1.POST("/documents", h.IngestText)
		apiV1.GET("/documents", h.ListDocuments)
	}

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
