package store

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/credentials"
)

// fakeCart is an in-memory cart backend: product id → quantity, with a fixed
// price per product.
type fakeCart struct {
	mu          sync.Mutex
	prices      map[int64]decimal.Decimal
	quantities  map[int64]int
	itemsCalls  int
	failNext    error
	sawDeadline bool
}

func newFakeCart(prices map[int64]decimal.Decimal) *fakeCart {
	return &fakeCart{prices: prices, quantities: map[int64]int{}}
}

func (f *fakeCart) takeFailure() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeCart) Items(ctx context.Context, _ int64) (service.CartItems, error) {
	if err := f.takeFailure(); err != nil {
		return service.CartItems{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemsCalls++
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}

	out := service.CartItems{Total: decimal.Zero}
	var id int64
	for id = 1; id <= 100; id++ {
		qty, ok := f.quantities[id]
		if !ok {
			continue
		}
		price := f.prices[id]
		line := transform.CartItem{
			ID:          id,
			Product:     transform.Product{ID: id},
			Quantity:    qty,
			PriceAtTime: price,
			TotalPrice:  price.Mul(decimal.NewFromInt(int64(qty))),
		}
		out.Items = append(out.Items, line)
		out.ItemCount += qty
		out.Total = out.Total.Add(line.TotalPrice)
	}
	return out, nil
}

func (f *fakeCart) Add(_ context.Context, _ int64, productID int64, quantity int) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantities[productID] += quantity
	return nil
}

func (f *fakeCart) UpdateQuantity(_ context.Context, _ int64, productID int64, quantity int) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantities[productID] = quantity
	return nil
}

func (f *fakeCart) Remove(_ context.Context, _ int64, productID int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.quantities, productID)
	return nil
}

func (f *fakeCart) Clear(_ context.Context, _ int64) error {
	if err := f.takeFailure(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quantities = map[int64]int{}
	return nil
}

func signedInCartStore(t *testing.T, fake *fakeCart) *CartStore {
	t.Helper()
	s := NewCartStore(fake, nil, zap.NewNop())
	s.userID = 5
	return s
}

func TestAddToCartUnauthenticatedFailsFast(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")})
	s := NewCartStore(fake, nil, zap.NewNop())

	err := s.AddToCart(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Equal(t, api.KindAuth, api.KindOf(err))

	// Nothing reached the backend.
	assert.Zero(t, fake.itemsCalls)
	assert.Empty(t, fake.quantities)
	assert.Equal(t, api.MsgUnauthorized, s.State().Err)
}

func TestAddToCartReloadsFullCart(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{
		1: decimal.RequireFromString("10.00"),
		2: decimal.RequireFromString("7.50"),
	})
	s := signedInCartStore(t, fake)

	require.NoError(t, s.AddToCart(context.Background(), 1, 2))
	require.NoError(t, s.AddToCart(context.Background(), 2, 1))

	state := s.State()
	require.Len(t, state.Items, 2)
	assert.Equal(t, 3, state.ItemCount)
	assert.True(t, state.Total.Equal(decimal.RequireFromString("27.50")), "total was %s", state.Total)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Err)
}

func TestUpdateQuantityChangesTotalExactly(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")})
	s := signedInCartStore(t, fake)

	require.NoError(t, s.AddToCart(context.Background(), 1, 2))
	before := s.State().Total

	require.NoError(t, s.UpdateQuantity(context.Background(), 1, 3))
	after := s.State().Total

	assert.True(t, after.Sub(before).Equal(decimal.RequireFromString("10.00")),
		"delta was %s", after.Sub(before))
}

func TestCartStateSumsStayConsistent(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{
		1: decimal.RequireFromString("10.00"),
		2: decimal.RequireFromString("7.50"),
		3: decimal.RequireFromString("0.99"),
	})
	s := signedInCartStore(t, fake)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, 1, 2))
	require.NoError(t, s.AddToCart(ctx, 2, 4))
	require.NoError(t, s.AddToCart(ctx, 3, 1))
	require.NoError(t, s.RemoveFromCart(ctx, 2))

	state := s.State()
	count := 0
	total := decimal.Zero
	for _, item := range state.Items {
		count += item.Quantity
		total = total.Add(item.PriceAtTime.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	assert.Equal(t, count, state.ItemCount)
	assert.True(t, total.Equal(state.Total))
}

func TestFailedMutationKeepsPriorItems(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")})
	s := signedInCartStore(t, fake)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, 1, 2))
	prior := s.State()

	fake.failNext = fmt.Errorf("request: %w", &api.Error{Kind: api.KindServer, Status: 500})
	err := s.UpdateQuantity(ctx, 1, 5)
	require.Error(t, err)

	state := s.State()
	assert.Equal(t, prior.Items, state.Items)
	assert.Equal(t, prior.ItemCount, state.ItemCount)
	assert.True(t, prior.Total.Equal(state.Total))
	assert.Equal(t, api.MsgServer, state.Err)
	assert.False(t, state.Loading)
}

func TestClearCartEmptiesState(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")})
	s := signedInCartStore(t, fake)
	ctx := context.Background()

	require.NoError(t, s.AddToCart(ctx, 1, 2))
	require.NoError(t, s.ClearCart(ctx))

	state := s.State()
	assert.Empty(t, state.Items)
	assert.Zero(t, state.ItemCount)
	assert.True(t, state.Total.IsZero())
}

func TestMembershipHelpersUseLocalState(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")})
	s := signedInCartStore(t, fake)

	require.NoError(t, s.AddToCart(context.Background(), 1, 2))
	itemsCallsBefore := fake.itemsCalls

	assert.True(t, s.IsProductInCart(1))
	assert.False(t, s.IsProductInCart(99))
	assert.Equal(t, 2, s.ItemQuantity(1))
	assert.Zero(t, s.ItemQuantity(99))
	assert.Equal(t, itemsCallsBefore, fake.itemsCalls)
}

func TestObserversSeeStateTransitions(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{1: decimal.RequireFromString("10.00")})
	s := signedInCartStore(t, fake)

	var loadingSeen, settledSeen bool
	s.Subscribe(func(state CartState) {
		if state.Loading {
			loadingSeen = true
		} else {
			settledSeen = true
		}
	})

	require.NoError(t, s.AddToCart(context.Background(), 1, 1))
	assert.True(t, loadingSeen)
	assert.True(t, settledSeen)
}

func TestBackendRejectionMessageReachesState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"success":false,"total":0,"itemCount":0,"error":"Insufficient stock for this product"}`))
			return
		}
		w.Write([]byte(`{"success":true,"total":0,"itemCount":0,"cartItems":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := api.New(api.Config{BaseURL: srv.URL}, credentials.Static{Token: "t"}, zap.NewNop())
	backend := service.NewCartService(client, transform.New(srv.URL, zap.NewNop()), zap.NewNop())
	s := NewCartStore(backend, nil, zap.NewNop())
	s.userID = 5

	err := s.AddToCart(context.Background(), 7, 1)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for this product", s.State().Err)
}

func TestLocalValidationMessageReachesState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"total":0,"itemCount":0,"cartItems":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := api.New(api.Config{BaseURL: srv.URL}, credentials.Static{Token: "t"}, zap.NewNop())
	backend := service.NewCartService(client, transform.New(srv.URL, zap.NewNop()), zap.NewNop())
	s := NewCartStore(backend, nil, zap.NewNop())
	s.userID = 5

	err := s.UpdateQuantity(context.Background(), 7, 0)
	require.Error(t, err)
	assert.Contains(t, s.State().Err, "quantity must be positive")
}

func TestLoginReloadRunsUnderDeadline(t *testing.T) {
	fake := newFakeCart(map[int64]decimal.Decimal{})
	s := NewCartStore(fake, nil, zap.NewNop())

	s.onAuthChange(&credentials.User{ID: 5})

	assert.True(t, fake.sawDeadline)
	assert.Equal(t, 1, fake.itemsCalls)
}
