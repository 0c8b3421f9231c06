package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artisania/storefront/internal/api"
)

func (h *Handler) myOrders(c *gin.Context) {
	orders, err := h.orders.UserOrders(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) guestOrders(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	orders, err := h.orders.GuestOrders(c.Request.Context(), email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) orderByID(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.ByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) cancelOrder(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
