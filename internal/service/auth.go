package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/artisania/storefront/internal/api"
	"github.com/artisania/storefront/pkg/credentials"
)

const (
	loginPath            = "/auth/login"
	registerCustomerPath = "/auth/register-customer"
	refreshPath          = "/auth/refresh"
	verifyPath           = "/auth/verify"
	checkEmailPath       = "/auth/check-email"
)

// refreshWindow is how close to expiry the access token may get before
// AutoRefresh replaces it.
const refreshWindow = 5 * time.Minute

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthService drives the token lifecycle against the auth endpoints and keeps
// the credential store current. Registration that returns a token doubles as
// a login.
type AuthService struct {
	client *api.Client
	creds  credentials.Store
	log    *zap.Logger
}

func NewAuthService(client *api.Client, creds credentials.Store, log *zap.Logger) *AuthService {
	return &AuthService{client: client, creds: creds, log: log}
}

func (s *AuthService) storeSession(token string, user credentials.User) error {
	existing, err := s.creds.Load()
	if err != nil {
		existing = credentials.Credentials{}
	}
	return s.creds.Save(credentials.Credentials{
		AccessToken:  token,
		RefreshToken: existing.RefreshToken,
		User:         &user,
	})
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (resp credentials.User, err error) {
	var out api.AuthResponse
	if err := s.client.Post(ctx, loginPath, req, &out); err != nil {
		return resp, fmt.Errorf("failed to log in: %w", err)
	}
	if out.Token == "" {
		return resp, fmt.Errorf("login response missing token")
	}

	user := credentials.User{ID: out.UserID, Email: out.Email, Role: out.Role}
	if err := s.storeSession(out.Token, user); err != nil {
		return resp, fmt.Errorf("failed to persist session: %w", err)
	}
	return user, nil
}

// RegisterCustomer creates the account and, when the backend returns a token,
// logs the new user straight in.
func (s *AuthService) RegisterCustomer(ctx context.Context, req LoginRequest) (resp credentials.User, err error) {
	var out api.AuthResponse
	if err := s.client.Post(ctx, registerCustomerPath, req, &out); err != nil {
		return resp, fmt.Errorf("failed to register: %w", err)
	}
	if out.Token == "" {
		return s.Login(ctx, req)
	}

	user := credentials.User{ID: out.UserID, Email: out.Email, Role: out.Role}
	if err := s.storeSession(out.Token, user); err != nil {
		return resp, fmt.Errorf("failed to persist session: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout() error {
	if err := s.creds.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// CheckEmail reports whether an account already uses the address. Lookup
// failures read as "not taken" so registration is never blocked by a flaky
// check.
func (s *AuthService) CheckEmail(ctx context.Context, email string) bool {
	var out struct {
		Exists bool `json:"exists"`
	}
	q := url.Values{}
	q.Set("email", email)
	if err := s.client.Get(ctx, checkEmailPath, q, &out); err != nil {
		s.log.Warn("email check failed", zap.Error(err))
		return false
	}
	return out.Exists
}

// Verify asks the backend who the current token belongs to and refreshes the
// stored user info from the answer.
func (s *AuthService) Verify(ctx context.Context) (resp credentials.User, err error) {
	var out api.User
	if err := s.client.Get(ctx, verifyPath, nil, &out); err != nil {
		return resp, fmt.Errorf("failed to verify token: %w", err)
	}

	user := credentials.User{ID: out.ID, Email: out.Email, Role: out.Role}
	existing, lerr := s.creds.Load()
	if lerr == nil && existing.AccessToken != "" {
		existing.User = &user
		if err := s.creds.Save(existing); err != nil {
			return resp, fmt.Errorf("failed to persist session: %w", err)
		}
	}
	return user, nil
}

// Refresh exchanges the refresh token for a new access token. A failed
// refresh clears the whole session; a half-expired session is worse than
// none.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	stored, err := s.creds.Load()
	if err != nil || stored.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token available")
	}

	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := s.client.PostAuthorized(ctx, refreshPath, stored.RefreshToken, nil, &out); err != nil {
		if cerr := s.creds.Clear(); cerr != nil {
			s.log.Warn("failed to clear session after refresh failure", zap.Error(cerr))
		}
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	stored.AccessToken = out.AccessToken
	if out.RefreshToken != "" {
		stored.RefreshToken = out.RefreshToken
	}
	if err := s.creds.Save(stored); err != nil {
		return "", fmt.Errorf("failed to persist refreshed session: %w", err)
	}
	return out.AccessToken, nil
}

// AutoRefresh refreshes the access token when it expires within the refresh
// window. Returns whether a refresh happened.
func (s *AuthService) AutoRefresh(ctx context.Context) bool {
	stored, err := s.creds.Load()
	if err != nil || stored.AccessToken == "" {
		return false
	}

	exp, ok := TokenExpiry(stored.AccessToken)
	if !ok {
		return false
	}
	if time.Until(exp) >= refreshWindow {
		return false
	}

	if _, err := s.Refresh(ctx); err != nil {
		s.log.Warn("auto refresh failed", zap.Error(err))
		return false
	}
	return true
}

// TokenExpiry reads the exp claim without verifying the signature. The client
// only needs the deadline; validation is the backend's job.
func TokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether the token's exp claim has passed. Tokens
// without a readable exp claim count as expired.
func TokenExpired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return true
	}
	return !exp.After(now)
}
