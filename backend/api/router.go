package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ispeaker/backend/repository"
	"ispeaker/backend/service"
)

type Router struct {
	service *service.Facade
	logger  zerolog.Logger
}

func NewRouter(svc *service.Facade, logger zerolog.Logger) *gin.Engine {
	r := &Router{service: svc, logger: logger}
	engine := gin.New()
	engine.Use(gin.Recovery())
	r.register(engine)
	return engine
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (r *Router) register(engine *gin.Engine) {
	engine.Use(corsMiddleware())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	saveFolder := engine.Group("/save-folder")
	{
		saveFolder.GET("", r.getSaveFolder)
		saveFolder.GET("/custom", r.getCustomSaveFolder)
		saveFolder.PUT("/custom", r.setCustomSaveFolder)
		saveFolder.DELETE("/custom", r.resetCustomSaveFolder)
		saveFolder.POST("/check", r.checkSaveFolder)
		saveFolder.GET("/logs", r.getLogFolder)
	}

	engine.GET("/events", r.streamEvents)

	settings := engine.Group("/settings")
	{
		settings.GET("/logs", r.getLogSettings)
		settings.PUT("/logs", r.updateLogSettings)
		settings.GET("/theme", r.getTheme)
		settings.PUT("/theme", r.setTheme)
	}

	engine.GET("/app/logs", r.getAppLogs)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func (r *Router) handleError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrInvalidData) ||
		errors.Is(err, repository.ErrEmptySaveFolder) ||
		errors.Is(err, repository.ErrRelativeFolder) ||
		errors.Is(err, repository.ErrInvalidTheme) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	r.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
