package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/events"
)

const ordersEndpoint = "/api/orders"

type CreateOrderItem struct {
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type CreateOrderRequest struct {
	TotalPrice decimal.Decimal
	Status     api.OrderStatus
	Shipping   transform.ShippingInfo
	GuestEmail string
	Items      []CreateOrderItem
}

// orderPayload is the backend entity shape for order creation: items nest the
// product reference instead of a flat productId.
type orderPayload struct {
	TotalPrice           decimal.Decimal    `json:"totalPrice"`
	Status               api.OrderStatus    `json:"status"`
	ShippingName         string             `json:"shippingName"`
	ShippingAddressLine1 string             `json:"shippingAddressLine1"`
	ShippingAddressLine2 string             `json:"shippingAddressLine2,omitempty"`
	ShippingCity         string             `json:"shippingCity"`
	ShippingPostalCode   string             `json:"shippingPostalCode"`
	ShippingCountry      string             `json:"shippingCountry"`
	ShippingPhone        string             `json:"shippingPhone,omitempty"`
	GuestEmail           string             `json:"guestEmail,omitempty"`
	OrderItems           []orderItemPayload `json:"orderItems"`
}

type orderItemPayload struct {
	Product struct {
		ID int64 `json:"id"`
	} `json:"product"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// OrderService places and reads orders. Successful creation publishes an
// order-placed event; publish failures never fail the order.
type OrderService struct {
	client    *api.Client
	tr        *transform.Transformer
	publisher events.Publisher
	log       *zap.Logger
}

func NewOrderService(client *api.Client, tr *transform.Transformer, publisher events.Publisher, log *zap.Logger) *OrderService {
	return &OrderService{client: client, tr: tr, publisher: publisher, log: log}
}

func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (resp transform.Order, err error) {
	status := req.Status
	if status == "" {
		status = api.OrderPending
	}

	payload := orderPayload{
		TotalPrice:           req.TotalPrice,
		Status:               status,
		ShippingName:         req.Shipping.Name,
		ShippingAddressLine1: req.Shipping.AddressLine1,
		ShippingAddressLine2: req.Shipping.AddressLine2,
		ShippingCity:         req.Shipping.City,
		ShippingPostalCode:   req.Shipping.PostalCode,
		ShippingCountry:      req.Shipping.Country,
		ShippingPhone:        req.Shipping.Phone,
		GuestEmail:           req.GuestEmail,
		OrderItems:           make([]orderItemPayload, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		p := orderItemPayload{Quantity: item.Quantity, PriceAtPurchase: item.PriceAtPurchase}
		p.Product.ID = item.ProductID
		payload.OrderItems = append(payload.OrderItems, p)
	}

	var b api.Order
	if err := s.client.Post(ctx, ordersEndpoint, payload, &b); err != nil {
		return resp, fmt.Errorf("failed to create order: %w", err)
	}

	s.publisher.Publish(events.Event{
		Type:    events.TypeOrderPlaced,
		OrderID: b.ID,
		Total:   b.TotalPrice.StringFixed(2),
		At:      time.Now().UTC(),
	})

	return s.tr.Order(b), nil
}

// CreateFromCart maps each cart line to an order item priced at its cart
// snapshot. The cart itself is left untouched; clearing it after a successful
// checkout is the caller's decision.
func (s *OrderService) CreateFromCart(ctx context.Context, items []transform.CartItem, shipping transform.ShippingInfo, total decimal.Decimal) (transform.Order, error) {
	orderItems := make([]CreateOrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, CreateOrderItem{
			ProductID:       item.Product.ID,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtTime,
		})
	}
	return s.Create(ctx, CreateOrderRequest{
		TotalPrice: total,
		Shipping:   shipping,
		Items:      orderItems,
	})
}

func (s *OrderService) UserOrders(ctx context.Context) ([]transform.Order, error) {
	var bs []api.Order
	if err := s.client.Get(ctx, ordersEndpoint+"/customer/me", nil, &bs); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return s.tr.Orders(bs), nil
}

func (s *OrderService) GuestOrders(ctx context.Context, email string) ([]transform.Order, error) {
	var bs []api.Order
	path := ordersEndpoint + "/guest/" + url.PathEscape(email)
	if err := s.client.Get(ctx, path, nil, &bs); err != nil {
		return nil, fmt.Errorf("failed to fetch guest orders: %w", err)
	}
	return s.tr.Orders(bs), nil
}

func (s *OrderService) ByID(ctx context.Context, id int64) (resp transform.Order, err error) {
	var b api.Order
	if err := s.client.Get(ctx, fmt.Sprintf("%s/%d", ordersEndpoint, id), nil, &b); err != nil {
		return resp, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return s.tr.Order(b), nil
}

// UpdateStatus passes the requested status through untouched; transition
// rules live on the backend.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, status api.OrderStatus) (resp transform.Order, err error) {
	var b api.Order
	path := fmt.Sprintf("%s/%d/status?status=%s", ordersEndpoint, id, url.QueryEscape(string(status)))
	if err := s.client.Put(ctx, path, nil, &b); err != nil {
		return resp, fmt.Errorf("failed to update order %d status: %w", id, err)
	}
	return s.tr.Order(b), nil
}

func (s *OrderService) Cancel(ctx context.Context, id int64) (resp transform.Order, err error) {
	var b api.Order
	if err := s.client.Put(ctx, fmt.Sprintf("%s/%d/cancel", ordersEndpoint, id), nil, &b); err != nil {
		return resp, fmt.Errorf("failed to cancel order %d: %w", id, err)
	}
	return s.tr.Order(b), nil
}

// ArtisanOrders lists orders containing the calling artisan's products.
func (s *OrderService) ArtisanOrders(ctx context.Context) ([]transform.Order, error) {
	var bs []api.Order
	if err := s.client.Get(ctx, ordersEndpoint+"/artisan", nil, &bs); err != nil {
		return nil, fmt.Errorf("failed to fetch artisan orders: %w", err)
	}
	return s.tr.Orders(bs), nil
}

// ArtisanOrderDetails returns an order filtered down to the calling artisan's
// items.
func (s *OrderService) ArtisanOrderDetails(ctx context.Context, id int64) (resp transform.Order, err error) {
	var b api.Order
	if err := s.client.Get(ctx, fmt.Sprintf("%s/%d/artisan", ordersEndpoint, id), nil, &b); err != nil {
		return resp, fmt.Errorf("failed to fetch artisan order %d: %w", id, err)
	}
	return s.tr.Order(b), nil
}

func (s *OrderService) UpdateItemStatus(ctx context.Context, orderID, itemID int64, status api.OrderStatus) error {
	path := fmt.Sprintf("%s/%d/items/%d/status", ordersEndpoint, orderID, itemID)
	body := map[string]string{"status": string(status)}
	if err := s.client.Put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("failed to update order item status: %w", err)
	}
	return nil
}
