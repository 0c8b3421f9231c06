package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/service"
	"github.com/artisania/storefront/pkg/credentials"
	"github.com/artisania/storefront/pkg/events"
)

// AuthStore holds the current session and tells its observers when it
// changes. Observers receive the new user, or nil on logout.
type AuthStore struct {
	auth      *service.AuthService
	creds     credentials.Store
	publisher events.Publisher
	log       *zap.Logger

	mu        sync.RWMutex
	user      *credentials.User
	observers []func(*credentials.User)
}

// NewAuthStore restores the persisted session. A stored token that already
// expired is discarded instead of being presented to the backend.
func NewAuthStore(auth *service.AuthService, creds credentials.Store, publisher events.Publisher, log *zap.Logger) *AuthStore {
	s := &AuthStore{auth: auth, creds: creds, publisher: publisher, log: log}

	stored, err := creds.Load()
	if err != nil {
		log.Warn("failed to restore session", zap.Error(err))
		return s
	}
	if stored.AccessToken == "" || stored.User == nil {
		return s
	}
	if service.TokenExpired(stored.AccessToken, time.Now()) {
		log.Info("dropping expired session", zap.String("email", stored.User.Email))
		if err := creds.Clear(); err != nil {
			log.Warn("failed to clear expired session", zap.Error(err))
		}
		return s
	}

	user := *stored.User
	s.user = &user
	return s
}

// Subscribe registers an observer for session changes. Registration order is
// notification order.
func (s *AuthStore) Subscribe(fn func(*credentials.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *AuthStore) setUser(user *credentials.User) {
	s.mu.Lock()
	s.user = user
	observers := make([]func(*credentials.User), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(user)
	}
}

// CurrentUser returns a copy; the store's state cannot be mutated through it.
func (s *AuthStore) CurrentUser() *credentials.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *AuthStore) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

func (s *AuthStore) HasRole(role string) bool {
	user := s.CurrentUser()
	return user != nil && user.Role == role
}

func (s *AuthStore) IsAdmin() bool   { return s.HasRole("ADMIN") }
func (s *AuthStore) IsArtisan() bool { return s.HasRole("ARTISAN") }

func (s *AuthStore) Login(ctx context.Context, email, password string) (credentials.User, error) {
	user, err := s.auth.Login(ctx, service.LoginRequest{Email: email, Password: password})
	if err != nil {
		return credentials.User{}, err
	}

	s.setUser(&user)
	s.publisher.Publish(events.Event{
		Type:      events.TypeUserLogin,
		UserEmail: user.Email,
		At:        time.Now().UTC(),
	})
	return user, nil
}

func (s *AuthStore) RegisterCustomer(ctx context.Context, email, password string) (credentials.User, error) {
	user, err := s.auth.RegisterCustomer(ctx, service.LoginRequest{Email: email, Password: password})
	if err != nil {
		return credentials.User{}, err
	}

	s.setUser(&user)
	s.publisher.Publish(events.Event{
		Type:      events.TypeUserLogin,
		UserEmail: user.Email,
		At:        time.Now().UTC(),
	})
	return user, nil
}

func (s *AuthStore) Logout() error {
	previous := s.CurrentUser()
	if err := s.auth.Logout(); err != nil {
		return err
	}

	s.setUser(nil)
	if previous != nil {
		s.publisher.Publish(events.Event{
			Type:      events.TypeUserLogout,
			UserEmail: previous.Email,
			At:        time.Now().UTC(),
		})
	}
	return nil
}

// Refresh re-verifies the token and updates the stored user info.
func (s *AuthStore) Refresh(ctx context.Context) error {
	user, err := s.auth.Verify(ctx)
	if err != nil {
		return err
	}
	s.setUser(&user)
	return nil
}
