package service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/events"
)

type recordingPublisher struct {
	published []events.Event
}

func (r *recordingPublisher) Publish(e events.Event) {
	r.published = append(r.published, e)
}

func newOrderService(t *testing.T, handler http.Handler) (*OrderService, *recordingPublisher) {
	t.Helper()
	client, srv := newTestClient(t, handler)
	pub := &recordingPublisher{}
	return NewOrderService(client, transform.New(srv.URL, zap.NewNop()), pub, zap.NewNop()), pub
}

const createdOrderJSON = `{"id":42,"customer":{"id":5,"email":"b@example.com"},"totalPrice":98.00,
	"status":"PENDING","shippingName":"Ann Lee","shippingAddressLine1":"12 Oak St",
	"shippingCity":"Portland","shippingPostalCode":"97201","shippingCountry":"US","orderItems":[]}`

func cartSnapshot() []transform.CartItem {
	return []transform.CartItem{
		{ID: 1, Product: transform.Product{ID: 1}, Quantity: 2, PriceAtTime: decimal.RequireFromString("40.00")},
		{ID: 2, Product: transform.Product{ID: 3}, Quantity: 1, PriceAtTime: decimal.RequireFromString("18.00")},
	}
}

func TestCreateFromCartBuildsEntityPayload(t *testing.T) {
	var payload struct {
		TotalPrice decimal.Decimal `json:"totalPrice"`
		Status     string          `json:"status"`
		OrderItems []struct {
			Product struct {
				ID int64 `json:"id"`
			} `json:"product"`
			Quantity        int             `json:"quantity"`
			PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
		} `json:"orderItems"`
	}
	var requests []string

	svc, _ := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Method+" "+r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(createdOrderJSON))
	}))

	_, err := svc.CreateFromCart(context.Background(), cartSnapshot(), transform.ShippingInfo{
		Name: "Ann Lee", AddressLine1: "12 Oak St", City: "Portland", PostalCode: "97201", Country: "US",
	}, decimal.RequireFromString("98.00"))
	require.NoError(t, err)

	// One line per cart item, priced at the cart snapshot.
	require.Len(t, payload.OrderItems, 2)
	assert.Equal(t, int64(1), payload.OrderItems[0].Product.ID)
	assert.Equal(t, 2, payload.OrderItems[0].Quantity)
	assert.True(t, payload.OrderItems[0].PriceAtPurchase.Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, "PENDING", payload.Status)

	// Checkout places the order only; nothing touches the cart endpoints.
	require.Len(t, requests, 1)
	assert.Equal(t, "POST /api/orders", requests[0])
}

func TestCreatePublishesOrderPlacedEvent(t *testing.T) {
	svc, pub := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(createdOrderJSON))
	}))

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		TotalPrice: decimal.RequireFromString("98.00"),
		Items:      []CreateOrderItem{{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("40.00")}},
	})
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TypeOrderPlaced, pub.published[0].Type)
	assert.Equal(t, int64(42), pub.published[0].OrderID)
}

func TestCreateFailureDoesNotPublish(t *testing.T) {
	svc, pub := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stock conflict", http.StatusUnprocessableEntity)
	}))

	_, err := svc.Create(context.Background(), CreateOrderRequest{})
	require.Error(t, err)
	assert.Equal(t, api.KindValidation, api.KindOf(err))
	assert.Empty(t, pub.published)
}

func TestUpdateStatusPassesThrough(t *testing.T) {
	var got string
	svc, _ := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Method + " " + r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(createdOrderJSON))
	}))

	_, err := svc.UpdateStatus(context.Background(), 42, api.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, "PUT /api/orders/42/status?status=SHIPPED", got)
}

func TestGuestOrdersEscapesEmail(t *testing.T) {
	var path string
	svc, _ := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	_, err := svc.GuestOrders(context.Background(), "guest@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/api/orders/guest/guest@example.com", path)
}

func TestUpdateItemStatus(t *testing.T) {
	var got map[string]string
	var path string
	svc, _ := newOrderService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, svc.UpdateItemStatus(context.Background(), 42, 7, api.OrderProcessing))
	assert.Equal(t, "PUT /api/orders/42/items/7/status", path)
	assert.Equal(t, "PROCESSING", got["status"])
}
