package http

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
)

func (h *Handler) myArtisanProfile(c *gin.Context) {
	profile, err := h.artisans.Current(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) updateArtisanProfile(c *gin.Context) {
	var body service.ArtisanProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	profile, err := h.artisans.UpdateCurrent(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) uploadImage(c *gin.Context, upload func(ctx context.Context, filename string, file io.Reader) (string, error)) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	defer f.Close()

	url, err := upload(c.Request.Context(), fh.Filename, f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}

func (h *Handler) uploadProfileImage(c *gin.Context) {
	h.uploadImage(c, h.artisans.UploadProfileImage)
}

func (h *Handler) uploadCoverImage(c *gin.Context) {
	h.uploadImage(c, h.artisans.UploadCoverImage)
}

func (h *Handler) myProducts(c *gin.Context) {
	page, err := h.products.Mine(c.Request.Context(), h.productFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) createProduct(c *gin.Context) {
	var body service.CreateProductRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	product, err := h.products.Create(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var body service.UpdateProductRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	product, err := h.products.Update(c.Request.Context(), id, body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func (h *Handler) artisanOrders(c *gin.Context) {
	orders, err := h.orders.ArtisanOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) artisanOrderDetails(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.ArtisanOrderDetails(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) updateOrderItemStatus(c *gin.Context) {
	orderID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.idParam(c, "itemId")
	if !ok {
		return
	}
	var body struct {
		Status api.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	if err := h.orders.UpdateItemStatus(c.Request.Context(), orderID, itemID, body.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}
