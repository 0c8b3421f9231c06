package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
	"github.com/artisania/storefront/internal/store"
	"github.com/artisania/storefront/internal/transform"
)

// Handler bundles the services and stores behind the route table.
type Handler struct {
	products   *service.ProductService
	artisans   *service.ArtisanService
	categories *service.CategoryService
	orders     *service.OrderService
	admin      *service.AdminService
	authSvc    *service.AuthService
	auth       *store.AuthStore
	cart       *store.CartStore
	log        *zap.Logger
}

func NewHandler(
	products *service.ProductService,
	artisans *service.ArtisanService,
	categories *service.CategoryService,
	orders *service.OrderService,
	admin *service.AdminService,
	authSvc *service.AuthService,
	auth *store.AuthStore,
	cart *store.CartStore,
	log *zap.Logger,
) *Handler {
	return &Handler{
		products:   products,
		artisans:   artisans,
		categories: categories,
		orders:     orders,
		admin:      admin,
		authSvc:    authSvc,
		auth:       auth,
		cart:       cart,
		log:        log,
	}
}

func (h *Handler) Register(engine *gin.Engine) {
	engine.GET("/home", h.home)

	products := engine.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/search", h.searchProducts)
		products.GET("/featured", h.featuredProducts)
		products.GET("/:id", h.productByID)
	}

	artisans := engine.Group("/artisans")
	{
		artisans.GET("", h.listArtisans)
		artisans.GET("/:id", h.artisanByID)
	}

	engine.GET("/categories", h.listCategories)
	engine.GET("/categories/:id/products", h.productsByCategory)

	auth := engine.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.POST("/register", h.registerCustomer)
		auth.POST("/register-artisan", h.registerArtisan)
		auth.POST("/logout", h.logout)
		auth.GET("/session", h.session)
		auth.GET("/check-email", h.checkEmail)
	}

	cart := engine.Group("/cart", h.requireAuth)
	{
		cart.GET("", h.cartState)
		cart.POST("/items", h.addToCart)
		cart.PUT("/items/:productId", h.updateCartQuantity)
		cart.DELETE("/items/:productId", h.removeFromCart)
		cart.DELETE("", h.clearCart)
		cart.POST("/checkout", h.checkout)
	}

	orders := engine.Group("/orders")
	{
		orders.GET("", h.requireAuth, h.myOrders)
		orders.GET("/guest", h.guestOrders)
		orders.GET("/:id", h.requireAuth, h.orderByID)
		orders.PUT("/:id/cancel", h.requireAuth, h.cancelOrder)
	}

	dashboard := engine.Group("/dashboard", h.requireArtisan)
	{
		dashboard.GET("/profile", h.myArtisanProfile)
		dashboard.PUT("/profile", h.updateArtisanProfile)
		dashboard.POST("/profile/profile-image", h.uploadProfileImage)
		dashboard.POST("/profile/cover-image", h.uploadCoverImage)
		dashboard.GET("/products", h.myProducts)
		dashboard.POST("/products", h.createProduct)
		dashboard.PUT("/products/:id", h.updateProduct)
		dashboard.DELETE("/products/:id", h.deleteProduct)
		dashboard.GET("/orders", h.artisanOrders)
		dashboard.GET("/orders/:id", h.artisanOrderDetails)
		dashboard.PUT("/orders/:id/items/:itemId/status", h.updateOrderItemStatus)
	}

	admin := engine.Group("/admin", h.requireAdmin)
	{
		admin.GET("/stats", h.adminStats)
		admin.GET("/products", h.adminProducts)
		admin.PUT("/products/:id", h.adminUpdateProduct)
		admin.PUT("/products/:id/featured", h.adminSetFeatured)
		admin.GET("/artisans", h.adminArtisans)
		admin.GET("/customers", h.adminCustomers)
		admin.DELETE("/users/:id", h.adminDeleteUser)
		admin.PUT("/users/:id/activate", h.adminActivateUser)
		admin.PUT("/users/:id/deactivate", h.adminDeactivateUser)
		admin.GET("/orders", h.adminOrders)
		admin.GET("/customers/:id/orders", h.adminCustomerOrders)
		admin.PUT("/orders/:id/status", h.adminUpdateOrderStatus)
		admin.GET("/categories", h.adminCategories)
		admin.POST("/categories", h.adminCreateCategory)
		admin.PUT("/categories/:id", h.adminUpdateCategory)
		admin.DELETE("/categories/:id", h.adminDeleteCategory)
	}
}

// respondError translates the api error taxonomy into an HTTP status plus the
// user-facing message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch api.KindOf(err) {
	case api.KindNetwork, api.KindServer:
		status = http.StatusBadGateway
	case api.KindTimeout:
		status = http.StatusGatewayTimeout
	case api.KindAuth:
		status = http.StatusUnauthorized
	case api.KindValidation:
		status = http.StatusBadRequest
	case api.KindNotFound:
		status = http.StatusNotFound
	}

	h.log.Debug("request failed", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": transform.ErrorMessage(err)})
}
