package transform

import "github.com/shopspring/decimal"

// View models: the shapes the delivery layer renders. Money keeps both the
// decimal value and the preformatted string so templates never format prices
// themselves.

type ImageAlt struct {
	Main  string `json:"main"`
	View1 string `json:"view1,omitempty"`
	View2 string `json:"view2,omitempty"`
	View3 string `json:"view3,omitempty"`
}

type ImageSet struct {
	Main      string   `json:"main"`
	Gallery   []string `json:"gallery"`
	Thumbnail string   `json:"thumbnail"`
	Alt       ImageAlt `json:"alt"`
}

type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	PriceFormatted string          `json:"priceFormatted"`
	Artisan        string          `json:"artisan"`
	ArtisanID      int64           `json:"artisanId"`
	Category       string          `json:"category"`
	CategoryID     int64           `json:"categoryId"`
	Description    string          `json:"description"`
	InStock        bool            `json:"inStock"`
	StockCount     int             `json:"stockCount"`
	Featured       bool            `json:"featured"`
	Images         ImageSet        `json:"images"`
	HasRealImages  bool            `json:"hasRealImages"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

type ArtisanUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Artisan struct {
	ID                  int64       `json:"id"`
	DisplayName         string      `json:"displayName"`
	Bio                 string      `json:"bio"`
	ProfileImage        string      `json:"profileImage"`
	CoverImage          string      `json:"coverImage"`
	HasRealProfileImage bool        `json:"hasRealProfileImage"`
	HasRealCoverImage   bool        `json:"hasRealCoverImage"`
	ProductCount        int         `json:"productCount"`
	CreatedAt           string      `json:"createdAt"`
	UpdatedAt           string      `json:"updatedAt"`
	User                ArtisanUser `json:"user"`
}

type CartItem struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	UserEmail   string          `json:"userEmail"`
	Product     Product         `json:"product"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"priceAtTime"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

type ShippingInfo struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode"`
	Country      string `json:"country"`
	Phone        string `json:"phone,omitempty"`
}

type OrderItem struct {
	ID              int64           `json:"id"`
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

type Order struct {
	ID                  int64           `json:"id"`
	CustomerID          int64           `json:"customerId,omitempty"`
	CustomerEmail       string          `json:"customerEmail,omitempty"`
	GuestEmail          string          `json:"guestEmail,omitempty"`
	IsGuestOrder        bool            `json:"isGuestOrder"`
	TotalPrice          decimal.Decimal `json:"totalPrice"`
	TotalPriceFormatted string          `json:"totalPriceFormatted"`
	Status              string          `json:"status"`
	Shipping            ShippingInfo    `json:"shipping"`
	Items               []OrderItem     `json:"items"`
	CreatedAt           string          `json:"createdAt"`
	UpdatedAt           string          `json:"updatedAt"`
}
