package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/internal/service"
	"github.com/artisania/storefront/internal/transform"
	"github.com/artisania/storefront/pkg/credentials"
)

const loginLoadTimeout = 15 * time.Second

// CartBackend is the slice of the cart service the store drives. Narrowed to
// an interface so tests can fake it.
type CartBackend interface {
	Items(ctx context.Context, userID int64) (service.CartItems, error)
	Add(ctx context.Context, userID, productID int64, quantity int) error
	UpdateQuantity(ctx context.Context, userID, productID int64, quantity int) error
	Remove(ctx context.Context, userID, productID int64) error
	Clear(ctx context.Context, userID int64) error
}

// CartState is one immutable snapshot of the cart. ItemCount and Total are
// always the sums over Items.
type CartState struct {
	Items     []transform.CartItem
	ItemCount int
	Total     decimal.Decimal
	Loading   bool
	Err       string
}

// CartStore mirrors the backend cart for the signed-in user. Every successful
// mutation is followed by a full reload so local state never drifts from the
// backend's stock and price adjustments. A failed operation keeps the previous
// items and records the error. Concurrent mutations are last-write-wins; the
// lock guards state only and is never held across a request.
type CartStore struct {
	backend CartBackend
	log     *zap.Logger

	mu        sync.RWMutex
	userID    int64
	state     CartState
	observers []func(CartState)
}

func NewCartStore(backend CartBackend, auth *AuthStore, log *zap.Logger) *CartStore {
	s := &CartStore{
		backend: backend,
		log:     log,
		state:   CartState{Total: decimal.Zero},
	}

	if auth != nil {
		if user := auth.CurrentUser(); user != nil {
			s.userID = user.ID
		}
		auth.Subscribe(s.onAuthChange)
	}
	return s
}

// onAuthChange reloads the cart on login and drops it on logout.
func (s *CartStore) onAuthChange(user *credentials.User) {
	if user == nil {
		s.mu.Lock()
		s.userID = 0
		s.state = CartState{Total: decimal.Zero}
		observers := s.snapshotObserversLocked()
		state := s.state
		s.mu.Unlock()
		notify(observers, state)
		return
	}

	s.mu.Lock()
	s.userID = user.ID
	s.mu.Unlock()

	// The reload runs outside any caller's request scope, so it gets its own
	// deadline.
	ctx, cancel := context.WithTimeout(context.Background(), loginLoadTimeout)
	defer cancel()
	if err := s.Load(ctx); err != nil {
		s.log.Warn("failed to load cart after login", zap.Error(err))
	}
}

// Subscribe registers an observer for cart state changes.
func (s *CartStore) Subscribe(fn func(CartState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *CartStore) snapshotObserversLocked() []func(CartState) {
	observers := make([]func(CartState), len(s.observers))
	copy(observers, s.observers)
	return observers
}

func notify(observers []func(CartState), state CartState) {
	for _, fn := range observers {
		fn(state)
	}
}

// State returns the current snapshot.
func (s *CartStore) State() CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *CartStore) currentUserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *CartStore) setLoading() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Err = ""
	observers := s.snapshotObserversLocked()
	state := s.state
	s.mu.Unlock()
	notify(observers, state)
}

func (s *CartStore) setItems(items service.CartItems) {
	s.mu.Lock()
	s.state = CartState{
		Items:     items.Items,
		ItemCount: items.ItemCount,
		Total:     items.Total,
	}
	observers := s.snapshotObserversLocked()
	state := s.state
	s.mu.Unlock()
	notify(observers, state)
}

// setError records the failure but keeps the last good items visible.
func (s *CartStore) setError(err error) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Err = transform.ErrorMessage(err)
	observers := s.snapshotObserversLocked()
	state := s.state
	s.mu.Unlock()
	notify(observers, state)
}

// Load fetches the backend cart and replaces local state with it.
func (s *CartStore) Load(ctx context.Context) error {
	userID := s.currentUserID()
	if userID == 0 {
		return s.authError()
	}

	s.setLoading()
	items, err := s.backend.Items(ctx, userID)
	if err != nil {
		s.setError(err)
		return err
	}
	s.setItems(items)
	return nil
}

// authError is the fail-fast path for unauthenticated cart use. No request is
// made; the state carries the standard log-in message.
func (s *CartStore) authError() error {
	err := &api.Error{Kind: api.KindAuth, Status: 401}
	s.setError(err)
	return err
}

// mutate runs one cart operation and reconciles by reloading the full cart on
// success.
func (s *CartStore) mutate(ctx context.Context, op func(ctx context.Context, userID int64) error) error {
	userID := s.currentUserID()
	if userID == 0 {
		return s.authError()
	}

	s.setLoading()
	if err := op(ctx, userID); err != nil {
		s.setError(err)
		return err
	}

	items, err := s.backend.Items(ctx, userID)
	if err != nil {
		s.setError(err)
		return err
	}
	s.setItems(items)
	return nil
}

func (s *CartStore) AddToCart(ctx context.Context, productID int64, quantity int) error {
	return s.mutate(ctx, func(ctx context.Context, userID int64) error {
		return s.backend.Add(ctx, userID, productID, quantity)
	})
}

func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	return s.mutate(ctx, func(ctx context.Context, userID int64) error {
		return s.backend.UpdateQuantity(ctx, userID, productID, quantity)
	})
}

func (s *CartStore) RemoveFromCart(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(ctx context.Context, userID int64) error {
		return s.backend.Remove(ctx, userID, productID)
	})
}

func (s *CartStore) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func(ctx context.Context, userID int64) error {
		return s.backend.Clear(ctx, userID)
	})
}

// IsProductInCart answers from local state; no request is made.
func (s *CartStore) IsProductInCart(productID int64) bool {
	return s.ItemQuantity(productID) > 0
}

func (s *CartStore) ItemQuantity(productID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.state.Items {
		if item.Product.ID == productID {
			return item.Quantity
		}
	}
	return 0
}
