package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
)

func (h *Handler) requireAuth(c *gin.Context) {
	if !h.auth.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": api.MsgUnauthorized})
		return
	}
	c.Next()
}

func (h *Handler) requireArtisan(c *gin.Context) {
	if !h.auth.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": api.MsgUnauthorized})
		return
	}
	if !h.auth.IsArtisan() && !h.auth.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": api.MsgForbidden})
		return
	}
	c.Next()
}

func (h *Handler) requireAdmin(c *gin.Context) {
	if !h.auth.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": api.MsgUnauthorized})
		return
	}
	if !h.auth.IsAdmin() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": api.MsgForbidden})
		return
	}
	c.Next()
}

// idParam parses a numeric path parameter. On failure it writes the 400
// response itself and reports ok=false.
func (h *Handler) idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) service.PageParams {
	var p service.PageParams
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		p.Size = v
	}
	p.Sort = c.Query("sort")
	return p
}
