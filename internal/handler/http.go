package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter wires the HTTP surface: the comic API, the websocket
// progress feed, health, and Prometheus metrics.
func NewRouter(comics *ComicHandler, progress *ProgressHub, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ZapLoggingMiddleware(log))
	router.Use(cors.Default())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/comics", comics.Generate)
		api.GET("/comics/:id", comics.Get)
		api.GET("/comics/:id/pdf", comics.DownloadPDF)
		api.GET("/comics/:id/character.png", comics.DownloadCharacter)
		api.GET("/comics/:id/scenes/:n", comics.DownloadScene)
		api.GET("/progress", progress.HandleProgress)
	}

	return router
}
