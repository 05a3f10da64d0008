package ports

import (
	"context"

	"github.com/gemach/admin-console/internal/core/domain"
)

// AuthService is the backend use-case layer behind /auth/*.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.AuthResult, error)
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	Profile(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, page, limit int) (*domain.Page[domain.User], error)
}
