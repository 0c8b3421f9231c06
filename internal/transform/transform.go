package transform

import (
	"strings"

	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
)

// Placeholder is the sentinel the view layer swaps for its own placeholder
// asset. It is never a fetchable URL.
const Placeholder = "USE_PLACEHOLDER"

// fallbackProductImage is served for products with no uploaded images.
const fallbackProductImage = "/api/placeholder/product-image.jpg"

const imagePathPrefix = "/api/files/images/"

// Transformer converts backend entities into view models. It is pure apart
// from the warning logged when an artisan image URL has an unusable form.
type Transformer struct {
	baseURL string
	log     *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Transformer {
	return &Transformer{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// fixProductImageURL repairs the backend's product image paths. Paths under
// /api/files/images/ that lack the products/ segment get it inserted, since
// the file controller stores product uploads under that directory but the
// entity serializer drops it.
func (t *Transformer) fixProductImageURL(raw string) string {
	if raw == "" {
		return Placeholder
	}
	if raw == Placeholder {
		return raw
	}
	if strings.HasPrefix(raw, imagePathPrefix) && !strings.Contains(raw, "/products/") {
		filename := strings.TrimPrefix(raw, imagePathPrefix)
		return t.baseURL + imagePathPrefix + "products/" + filename
	}
	if strings.HasPrefix(raw, "/api/") {
		return t.baseURL + raw
	}
	return raw
}

// artisanImageURL resolves an artisan profile or cover image. Absolute URLs
// pass through, /api/ paths are prefixed with the base URL, and anything else
// is treated as unusable.
func (t *Transformer) artisanImageURL(raw string) string {
	if raw == "" {
		return Placeholder
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if strings.HasPrefix(raw, "/api/") {
		return t.baseURL + raw
	}
	t.log.Warn("invalid image URL format", zap.String("url", raw))
	return Placeholder
}

func (t *Transformer) productImages(b api.Product) ImageSet {
	if len(b.ProductImages) == 0 {
		return ImageSet{
			Main:      fallbackProductImage,
			Gallery:   []string{fallbackProductImage},
			Thumbnail: fallbackProductImage,
			Alt:       ImageAlt{Main: b.Name + " - image coming soon"},
		}
	}

	var primary *api.ProductImage
	var gallery []api.ProductImage
	for i := range b.ProductImages {
		img := b.ProductImages[i]
		if img.IsPrimary && primary == nil {
			primary = &b.ProductImages[i]
		} else if !img.IsPrimary {
			gallery = append(gallery, img)
		}
	}

	mainURL := fallbackProductImage
	mainAlt := b.Name + " main view"
	if primary != nil {
		mainURL = primary.ImageURL
		if primary.AltText != "" {
			mainAlt = primary.AltText
		}
	}

	if len(gallery) > 3 {
		gallery = gallery[:3]
	}
	urls := make([]string, 0, len(gallery))
	alt := ImageAlt{Main: mainAlt}
	for i, img := range gallery {
		urls = append(urls, t.fixProductImageURL(img.ImageURL))
		switch i {
		case 0:
			alt.View1 = img.AltText
		case 1:
			alt.View2 = img.AltText
		case 2:
			alt.View3 = img.AltText
		}
	}

	fixed := t.fixProductImageURL(mainURL)
	return ImageSet{
		Main:      fixed,
		Gallery:   urls,
		Thumbnail: fixed,
		Alt:       alt,
	}
}

func (t *Transformer) Product(b api.Product) Product {
	return Product{
		ID:             b.ID,
		Name:           b.Name,
		Price:          b.Price,
		PriceFormatted: FormatPrice(b.Price),
		Artisan:        b.Artisan.DisplayName,
		ArtisanID:      b.Artisan.ID,
		Category:       b.Category.Name,
		CategoryID:     b.Category.ID,
		Description:    b.Description,
		InStock:        b.StockQuantity > 0,
		StockCount:     b.StockQuantity,
		Featured:       b.IsFeatured,
		Images:         t.productImages(b),
		HasRealImages:  len(b.ProductImages) > 0,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func (t *Transformer) Products(bs []api.Product) []Product {
	out := make([]Product, 0, len(bs))
	for _, b := range bs {
		out = append(out, t.Product(b))
	}
	return out
}

// Artisan leaves ProductCount at zero; the artisan service fills it in from
// the product queries when the caller asks for it.
func (t *Transformer) Artisan(b api.ArtisanProfile) Artisan {
	return Artisan{
		ID:                  b.ID,
		DisplayName:         b.DisplayName,
		Bio:                 b.Bio,
		ProfileImage:        t.artisanImageURL(b.ProfileImageURL),
		CoverImage:          t.artisanImageURL(b.CoverImageURL),
		HasRealProfileImage: b.ProfileImageURL != "" && b.ProfileImageURL != Placeholder,
		HasRealCoverImage:   b.CoverImageURL != "" && b.CoverImageURL != Placeholder,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
		User: ArtisanUser{
			ID:        b.User.ID,
			Email:     b.User.Email,
			FirstName: b.User.FirstName,
			LastName:  b.User.LastName,
		},
	}
}

func (t *Transformer) Artisans(bs []api.ArtisanProfile) []Artisan {
	out := make([]Artisan, 0, len(bs))
	for _, b := range bs {
		out = append(out, t.Artisan(b))
	}
	return out
}

// CartItem keeps PriceAtTime exactly as the backend sent it and derives the
// line total from it, not from the live product price.
func (t *Transformer) CartItem(b api.CartItem) CartItem {
	return CartItem{
		ID:          b.ID,
		UserID:      b.User.ID,
		UserEmail:   b.User.Email,
		Product:     t.Product(b.Product),
		Quantity:    b.Quantity,
		PriceAtTime: b.PriceAtTime,
		TotalPrice:  b.PriceAtTime.Mul(decimalFromInt(b.Quantity)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func (t *Transformer) CartItems(bs []api.CartItem) []CartItem {
	out := make([]CartItem, 0, len(bs))
	for _, b := range bs {
		out = append(out, t.CartItem(b))
	}
	return out
}

func (t *Transformer) OrderItem(b api.OrderItem) OrderItem {
	return OrderItem{
		ID:              b.ID,
		Product:         t.Product(b.Product),
		Quantity:        b.Quantity,
		PriceAtPurchase: b.PriceAtPurchase,
		TotalPrice:      b.PriceAtPurchase.Mul(decimalFromInt(b.Quantity)),
	}
}

func (t *Transformer) Order(b api.Order) Order {
	items := make([]OrderItem, 0, len(b.OrderItems))
	for _, it := range b.OrderItems {
		items = append(items, t.OrderItem(it))
	}

	o := Order{
		ID:                  b.ID,
		GuestEmail:          b.GuestEmail,
		IsGuestOrder:        b.Customer == nil && b.GuestEmail != "",
		TotalPrice:          b.TotalPrice,
		TotalPriceFormatted: FormatPrice(b.TotalPrice),
		Status:              string(b.Status),
		Shipping: ShippingInfo{
			Name:         b.ShippingName,
			AddressLine1: b.ShippingAddressLine1,
			AddressLine2: b.ShippingAddressLine2,
			City:         b.ShippingCity,
			PostalCode:   b.ShippingPostalCode,
			Country:      b.ShippingCountry,
			Phone:        b.ShippingPhone,
		},
		Items:     items,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Customer != nil {
		o.CustomerID = b.Customer.ID
		o.CustomerEmail = b.Customer.Email
	}
	return o
}

func (t *Transformer) Orders(bs []api.Order) []Order {
	out := make([]Order, 0, len(bs))
	for _, b := range bs {
		out = append(out, t.Order(b))
	}
	return out
}

// ValidProduct reports whether a backend product carries everything the view
// layer needs. Callers drop entities that fail it instead of rendering holes.
func ValidProduct(b api.Product) bool {
	return b.ID != 0 && b.Name != "" && b.Artisan.ID != 0 && b.Category.ID != 0
}

func ValidArtisan(b api.ArtisanProfile) bool {
	return b.ID != 0 && b.DisplayName != "" && b.User.ID != 0
}
