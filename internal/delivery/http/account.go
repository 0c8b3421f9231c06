package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
)

type credentialsBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	user, err := h.auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) registerCustomer(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	user, err := h.auth.RegisterCustomer(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// registerArtisan forwards the multipart form as-is: account fields plus the
// optional profile and cover images.
func (h *Handler) registerArtisan(c *gin.Context) {
	req := service.RegisterArtisanRequest{
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		DisplayName: c.PostForm("displayName"),
		Bio:         c.PostForm("bio"),
	}
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}

	if fh, err := c.FormFile("profileImage"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
			return
		}
		defer f.Close()
		req.ProfileImage = f
		req.ProfileName = fh.Filename
	}
	if fh, err := c.FormFile("coverImage"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
			return
		}
		defer f.Close()
		req.CoverImage = f
		req.CoverName = fh.Filename
	}

	resp, err := h.artisans.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.auth.Logout(); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) session(c *gin.Context) {
	user := h.auth.CurrentUser()
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": api.MsgUnauthorized})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) checkEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": h.authSvc.CheckEmail(c.Request.Context(), email)})
}
