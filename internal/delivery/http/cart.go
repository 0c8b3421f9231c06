package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
)

func (h *Handler) cartState(c *gin.Context) {
	if err := h.cart.Load(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart.State())
}

type cartItemBody struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var body cartItemBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	if err := h.cart.AddToCart(c.Request.Context(), body.ProductID, body.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart.State())
}

func (h *Handler) updateCartQuantity(c *gin.Context) {
	productID, ok := h.idParam(c, "productId")
	if !ok {
		return
	}
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}
	if err := h.cart.UpdateQuantity(c.Request.Context(), productID, body.Quantity); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart.State())
}

func (h *Handler) removeFromCart(c *gin.Context) {
	productID, ok := h.idParam(c, "productId")
	if !ok {
		return
	}
	if err := h.cart.RemoveFromCart(c.Request.Context(), productID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart.State())
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.cart.ClearCart(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.cart.State())
}

// checkout places an order from the current cart contents, then clears the
// cart as a second step. A failed clear does not undo the order; the reload
// on the next cart read settles it.
func (h *Handler) checkout(c *gin.Context) {
	var body struct {
		Shipping transform.ShippingInfo `json:"shipping" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": api.MsgValidation})
		return
	}

	ctx := c.Request.Context()
	if err := h.cart.Load(ctx); err != nil {
		h.respondError(c, err)
		return
	}
	state := h.cart.State()
	if len(state.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	order, err := h.orders.CreateFromCart(ctx, state.Items, body.Shipping, state.Total)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.cart.ClearCart(ctx); err != nil {
		h.log.Warn("failed to clear cart after checkout",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, order)
}
