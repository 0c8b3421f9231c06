package credentials

// User is the persisted session user record.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Credentials is the full persisted auth state: the JWT pair plus the
// serialized user record, mirroring the backend's token response.
type Credentials struct {
	AccessToken  string `json:"jwt_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user_info,omitempty"`
}

// Provider supplies the bearer token attached to authenticated requests. It is
// injected into the API client so tests can run against fixed tokens.
type Provider interface {
	AccessToken() string
}

// Store is a Provider that also owns the credential lifecycle.
type Store interface {
	Provider
	Load() (Credentials, error)
	Save(creds Credentials) error
	Clear() error
}

// Static is a fixed-token provider for tests and scripted calls.
type Static struct {
	Token string
}

func (s Static) AccessToken() string { return s.Token }
