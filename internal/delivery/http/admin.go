package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
)

func (h *Handler) adminStats(c *gin.Context) {
	stats, err := h.admin.DashboardStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) adminProducts(c *gin.Context) {
	page, err := h.admin.Products(c.Request.Context(), c.Query("search"), pageParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) adminUpdateProduct(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var body service.AdminProductUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	product, err := h.admin.UpdateProduct(c.Request.Context(), id, body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) adminSetFeatured(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Featured bool `json:"featured"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	product, err := h.admin.SetProductFeatured(c.Request.Context(), id, body.Featured)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) adminArtisans(c *gin.Context) {
	users, err := h.admin.Artisans(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) adminCustomers(c *gin.Context) {
	users, err := h.admin.Customers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) adminDeleteUser(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *Handler) adminActivateUser(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.admin.ActivateUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) adminDeactivateUser(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.admin.DeactivateUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) adminOrders(c *gin.Context) {
	status := api.OrderStatus(c.Query("status"))
	orders, err := h.admin.Orders(c.Request.Context(), status, pageParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) adminCustomerOrders(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	orders, err := h.admin.CustomerOrders(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) adminUpdateOrderStatus(c *gin.Context) {
	id, ok := h.idParam(c, "id")
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
	order, err := h.admin.UpdateOrderStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) adminCategories(c *gin.Context) {
	categories, err := h.admin.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) adminCreateCategory(c *gin.Context) {
	var body service.CategoryRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	category, err := h.admin.CreateCategory(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) adminUpdateCategory(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var body service.CategoryRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	category, err := h.admin.UpdateCategory(c.Request.Context(), id, body)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *Handler) adminDeleteCategory(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteCategory(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
