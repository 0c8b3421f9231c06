package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
)

const cartEndpoint = "/api/cart"

// CartItems is a cart snapshot. ItemCount and Total are derived locally by
// summing the lines, never taken from the backend envelope.
type CartItems struct {
	Items     []transform.CartItem
	ItemCount int
	Total     decimal.Decimal
}

// ContainsResult reports cart membership for one product.
type ContainsResult struct {
	InCart bool
	Item   *transform.CartItem
}

// CartService wraps the cart endpoints. Cart state is per-user and mutates
// constantly, so nothing here is cached.
type CartService struct {
	client *api.Client
	tr     *transform.Transformer
	log    *zap.Logger
}

func NewCartService(client *api.Client, tr *transform.Transformer, log *zap.Logger) *CartService {
	return &CartService{client: client, tr: tr, log: log}
}

// unwrap turns an unsuccessful envelope into an error carrying the backend's
// message. The envelope arrives with HTTP 200, so the rejection is rebuilt as
// a validation-class api error to keep the message visible to ErrorMessage.
func unwrap(env api.CartEnvelope, op string) error {
	if env.Success {
		return nil
	}
	msg := env.Error
	if msg == "" {
		msg = env.Message
	}
	return fmt.Errorf("%s: %w", op, &api.Error{
		Kind:          api.KindValidation,
		Status:        http.StatusBadRequest,
		ServerMessage: msg,
	})
}

func (s *CartService) Items(ctx context.Context, userID int64) (resp CartItems, err error) {
	var env api.CartEnvelope
	if err := s.client.Get(ctx, fmt.Sprintf("%s/user/%d", cartEndpoint, userID), nil, &env); err != nil {
		return resp, fmt.Errorf("failed to fetch cart: %w", err)
	}
	if err := unwrap(env, "failed to fetch cart"); err != nil {
		return resp, err
	}

	items := s.tr.CartItems(env.CartItems)
	total := decimal.Zero
	count := 0
	for _, it := range items {
		total = total.Add(it.TotalPrice)
		count += it.Quantity
	}
	return CartItems{Items: items, ItemCount: count, Total: total}, nil
}

func (s *CartService) Add(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		quantity = 1
	}
	var env api.CartEnvelope
	err := s.client.Post(ctx, cartEndpoint+"/add", map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  quantity,
	}, &env)
	if err != nil {
		return fmt.Errorf("failed to add to cart: %w", err)
	}
	return unwrap(env, "failed to add to cart")
}

// UpdateQuantity rejects non-positive quantities locally; removal is an
// explicit separate operation.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	var env api.CartEnvelope
	err := s.client.Put(ctx, cartEndpoint+"/update-quantity", map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  quantity,
	}, &env)
	if err != nil {
		return fmt.Errorf("failed to update quantity: %w", err)
	}
	return unwrap(env, "failed to update quantity")
}

func (s *CartService) Remove(ctx context.Context, userID, productID int64) error {
	var env api.CartEnvelope
	err := s.client.Delete(ctx, cartEndpoint+"/remove", map[string]any{
		"userId":    userID,
		"productId": productID,
	}, &env)
	if err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	return unwrap(env, "failed to remove from cart")
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	var env api.CartEnvelope
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/clear/%d", cartEndpoint, userID), nil, &env); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return unwrap(env, "failed to clear cart")
}

func (s *CartService) Count(ctx context.Context, userID int64) (int, error) {
	var env api.CartEnvelope
	if err := s.client.Get(ctx, fmt.Sprintf("%s/count/%d", cartEndpoint, userID), nil, &env); err != nil {
		return 0, fmt.Errorf("failed to fetch cart count: %w", err)
	}
	if err := unwrap(env, "failed to fetch cart count"); err != nil {
		return 0, err
	}
	return env.Count, nil
}

func (s *CartService) Contains(ctx context.Context, userID, productID int64) (resp ContainsResult, err error) {
	var env api.CartEnvelope
	if err := s.client.Get(ctx, fmt.Sprintf("%s/check/%d/%d", cartEndpoint, userID, productID), nil, &env); err != nil {
		return resp, fmt.Errorf("failed to check cart: %w", err)
	}
	if err := unwrap(env, "failed to check cart"); err != nil {
		return resp, err
	}

	resp.InCart = env.InCart
	if env.CartItem != nil {
		item := s.tr.CartItem(*env.CartItem)
		resp.Item = &item
	}
	return resp, nil
}

// SyncPrices asks the backend to refresh each line's price snapshot to the
// current product price and returns the updated cart.
func (s *CartService) SyncPrices(ctx context.Context, userID int64) (resp CartItems, err error) {
	var env api.CartEnvelope
	if err := s.client.Put(ctx, fmt.Sprintf("%s/sync-prices/%d", cartEndpoint, userID), nil, &env); err != nil {
		return resp, fmt.Errorf("failed to sync cart prices: %w", err)
	}
	if err := unwrap(env, "failed to sync cart prices"); err != nil {
		return resp, err
	}

	items := s.tr.CartItems(env.CartItems)
	total := decimal.Zero
	count := 0
	for _, it := range items {
		total = total.Add(it.TotalPrice)
		count += it.Quantity
	}
	return CartItems{Items: items, ItemCount: count, Total: total}, nil
}
