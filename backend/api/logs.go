package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (r *Router) getAppLogs(c *gin.Context) {
	since, err := offsetQuery(c, "since")
	if err != nil {
		badRequest(c, err)
		return
	}
	epoch, err := offsetQuery(c, "epoch")
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, r.service.GetAppLogs(since, epoch))
}

// offsetQuery parses an optional non-negative integer query parameter.
func offsetQuery(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid '%s' parameter: must be a non-negative integer", name)
	}
	return v, nil
}
