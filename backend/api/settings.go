package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ispeaker/backend/domain"
)

func (r *Router) getLogSettings(c *gin.Context) {
	settings, err := r.service.LogSettings(c.Request.Context())
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (r *Router) updateLogSettings(c *gin.Context) {
	var patch domain.LogSettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := r.service.UpdateLogSettings(c.Request.Context(), patch)
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (r *Router) getTheme(c *gin.Context) {
	theme, err := r.service.Theme(c.Request.Context())
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (r *Router) setTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := r.service.SetTheme(c.Request.Context(), req.Theme); err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}
