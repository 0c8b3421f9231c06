package api

import "github.com/shopspring/decimal"

// Backend entity shapes as the marketplace API serves them. These are wire
// types only; rendering always goes through internal/transform first.

type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

type ProductImage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"imageUrl"`
	IsPrimary bool   `json:"isPrimary"`
	AltText   string `json:"altText,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ArtisanProfile deliberately has no products field: the artisan-product
// relationship is resolved through paginated product queries to keep the
// entity graph cycle free.
type ArtisanProfile struct {
	ID              int64  `json:"id"`
	DisplayName     string `json:"displayName"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	CoverImageURL   string `json:"coverImageUrl,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	User            User   `json:"user"`
}

type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	IsFeatured    bool            `json:"isFeatured"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
	Artisan       ArtisanProfile  `json:"artisan"`
	Category      Category        `json:"category"`
	ProductImages []ProductImage  `json:"productImages"`
}

// CartItem carries PriceAtTime, the price snapshot taken when the line was
// added. It is never recomputed from the live product price.
type CartItem struct {
	ID          int64           `json:"id"`
	User        User            `json:"user"`
	Product     Product         `json:"product"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"priceAtTime"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

type Order struct {
	ID                   int64           `json:"id"`
	Customer             *User           `json:"customer"`
	GuestEmail           string          `json:"guestEmail,omitempty"`
	TotalPrice           decimal.Decimal `json:"totalPrice"`
	Status               OrderStatus     `json:"status"`
	ShippingName         string          `json:"shippingName"`
	ShippingAddressLine1 string          `json:"shippingAddressLine1"`
	ShippingAddressLine2 string          `json:"shippingAddressLine2,omitempty"`
	ShippingCity         string          `json:"shippingCity"`
	ShippingPostalCode   string          `json:"shippingPostalCode"`
	ShippingCountry      string          `json:"shippingCountry"`
	ShippingPhone        string          `json:"shippingPhone,omitempty"`
	CreatedAt            string          `json:"createdAt"`
	UpdatedAt            string          `json:"updatedAt"`
	OrderItems           []OrderItem     `json:"orderItems"`
}

type OrderItem struct {
	ID              int64           `json:"id"`
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	UserID  int64  `json:"userId"`
	Email   string `json:"email"`
	Role    string `json:"role"`
}

// CartEnvelope is the cart endpoints' response wrapper. Which fields are set
// depends on the operation.
type CartEnvelope struct {
	Success   bool            `json:"success"`
	CartItems []CartItem      `json:"cartItems,omitempty"`
	CartItem  *CartItem       `json:"cartItem,omitempty"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	Count     int             `json:"count"`
	InCart    bool            `json:"inCart"`
	Message   string          `json:"message,omitempty"`
	Error     string          `json:"error,omitempty"`
}
