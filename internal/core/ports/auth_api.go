package ports

import (
	"context"

	"github.com/gemach/admin-console/internal/core/domain"
)

// RegisterInput carries the fields of POST /auth/register.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=admin staff volunteer"`
}

// AuthAPI is the backend's authentication surface as seen by the client.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, in RegisterInput) (*domain.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*domain.User, error)
}
