package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ispeaker/backend/domain"
)

func (r *Router) getSaveFolder(c *gin.Context) {
	path, err := r.service.SaveFolder(c.Request.Context())
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (r *Router) getCustomSaveFolder(c *gin.Context) {
	path, err := r.service.CustomSaveFolder(c.Request.Context())
	if err != nil {
		r.handleError(c, err)
		return
	}
	if path == "" {
		c.JSON(http.StatusOK, gin.H{"path": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (r *Router) getLogFolder(c *gin.Context) {
	path, err := r.service.LogFolder(c.Request.Context())
	if err != nil {
		r.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// saveFolderRequest path 为 null 或空串时恢复默认目录
type saveFolderRequest struct {
	Path *string `json:"path"`
}

func (r *Router) setCustomSaveFolder(c *gin.Context) {
	var req saveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	path := ""
	if req.Path != nil {
		path = *req.Path
	}
	r.writeRelocation(c, r.service.SetCustomSaveFolder(c.Request.Context(), path))
}

func (r *Router) resetCustomSaveFolder(c *gin.Context) {
	r.writeRelocation(c, r.service.SetCustomSaveFolder(c.Request.Context(), ""))
}

func (r *Router) writeRelocation(c *gin.Context, result domain.RelocationResult) {
	c.JSON(relocationStatus(result), result)
}

func relocationStatus(result domain.RelocationResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case result.Error == domain.ErrFolderMove:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func (r *Router) checkSaveFolder(c *gin.Context) {
	var req saveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Path == nil || strings.TrimSpace(*req.Path) == "" {
		badRequest(c, errors.New("path is required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"path":   *req.Path,
		"denied": r.service.IsDeniedPath(*req.Path),
	})
}
