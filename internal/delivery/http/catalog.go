package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/service"
)

const (
	homeFeaturedSize = 8
	homeArtisanSize  = 4
)

// home aggregates the landing page data in one response. The pieces are
// independent, so a failing section is logged and left empty instead of
// failing the whole page.
func (h *Handler) home(c *gin.Context) {
	ctx := c.Request.Context()

	featured, err := h.products.Featured(ctx, service.ProductFilter{PageParams: service.PageParams{Size: homeFeaturedSize}})
	if err != nil {
		h.log.Warn("failed to load featured products for home", zap.Error(err))
	}
	categories, err := h.categories.All(ctx)
	if err != nil {
		h.log.Warn("failed to load categories for home", zap.Error(err))
	}
	artisans, err := h.artisans.List(ctx, service.ArtisanFilter{PageParams: service.PageParams{Size: homeArtisanSize}})
	if err != nil {
		h.log.Warn("failed to load artisans for home", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"featuredProducts": featured.Content,
		"categories":       categories,
		"artisans":         artisans.Content,
	})
}

func (h *Handler) productFilter(c *gin.Context) service.ProductFilter {
	f := service.ProductFilter{PageParams: pageParams(c)}
	if v, err := strconv.ParseInt(c.Query("categoryId"), 10, 64); err == nil {
		f.CategoryID = v
	}
	if v, err := strconv.ParseInt(c.Query("artisanId"), 10, 64); err == nil {
		f.ArtisanID = v
	}
	if v, err := strconv.ParseBool(c.Query("featured")); err == nil {
		f.Featured = &v
	}
	if v, err := strconv.ParseBool(c.Query("inStock")); err == nil {
		f.InStock = &v
	}
	if v, err := decimal.NewFromString(c.Query("minPrice")); err == nil {
		f.MinPrice = &v
	}
	if v, err := decimal.NewFromString(c.Query("maxPrice")); err == nil {
		f.MaxPrice = &v
	}
	f.Name = c.Query("name")
	return f
}

func (h *Handler) listProducts(c *gin.Context) {
	page, err := h.products.List(c.Request.Context(), h.productFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) searchProducts(c *gin.Context) {
	page, err := h.products.Search(c.Request.Context(), c.Query("q"), h.productFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) featuredProducts(c *gin.Context) {
	page, err := h.products.Featured(c.Request.Context(), h.productFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) productByID(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	product, err := h.products.ByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) productsByCategory(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	page, err := h.products.ByCategory(c.Request.Context(), id, h.productFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) listArtisans(c *gin.Context) {
	f := service.ArtisanFilter{DisplayName: c.Query("displayName"), PageParams: pageParams(c)}
	if q := c.Query("q"); q != "" {
		page, err := h.artisans.Search(c.Request.Context(), q, f)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
		return
	}
	page, err := h.artisans.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// artisanByID returns the profile together with the artisan's product page so
// the detail view loads in one round trip.
func (h *Handler) artisanByID(c *gin.Context) {
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.artisans.WithProducts(c.Request.Context(), id, pageParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"artisan":  resp.Artisan,
		"products": resp.Products,
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if c.Query("stats") == "true" {
		stats, err := h.categories.Stats(c.Request.Context())
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories, "stats": stats})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
