package apiclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

var errIncompleteAuth = errors.New("auth response missing tokens or user")

var _ ports.AuthAPI = (*AuthClient)(nil)

// AuthClient implements ports.AuthAPI.
type AuthClient struct {
	api *transport.Client
}

func NewAuthClient(api *transport.Client) *AuthClient {
	return &AuthClient{api: api}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (c *AuthClient) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", loginRequest{Email: email, Password: password})
}

func (c *AuthClient) Register(ctx context.Context, in ports.RegisterInput) (*domain.AuthResult, error) {
	return c.authenticate(ctx, "/auth/register", in)
}

func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	return c.authenticate(ctx, "/auth/refresh", refreshRequest{RefreshToken: refreshToken})
}

// Logout tells the backend to revoke the session. It sends no body.
func (c *AuthClient) Logout(ctx context.Context) error {
	return c.api.Post(ctx, "/auth/logout", nil, nil)
}

// Profile fetches the user the current access token belongs to.
func (c *AuthClient) Profile(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.api.Get(ctx, "/auth/profile", nil, &u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		return nil, fmt.Errorf("profile: %w", errIncompleteAuth)
	}
	return &u, nil
}

// Health probes GET /health.
func (c *AuthClient) Health(ctx context.Context) error {
	return c.api.Get(ctx, "/health", nil, nil)
}

func (c *AuthClient) authenticate(ctx context.Context, path string, body any) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.api.Post(ctx, path, body, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" || res.User == nil {
		return nil, errIncompleteAuth
	}
	return &res, nil
}
